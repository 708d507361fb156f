package merchant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPatterns() []Pattern {
	return []Pattern{
		{
			Name:            "takealot",
			DomainPatterns:  []string{`takealot\.com$`},
			SubjectPatterns: []string{`takealot`},
			BodyPhrases:     []string{"takealot order"},
		},
		{
			Name:            "woolworths",
			DomainPatterns:  []string{`woolworths\.co\.za$`},
			SubjectPatterns: []string{`woolworths`},
			BodyPhrases:     []string{"woolworths"},
		},
	}
}

func TestIdentify(t *testing.T) {
	id, err := NewIdentifier(testPatterns())
	require.NoError(t, err)

	tests := []struct {
		name           string
		msg            InboundMessage
		wantVendor     string
		wantConfidence float64
	}{
		{
			name: "domain match alone clears threshold",
			msg: InboundMessage{
				From:    "orders@takealot.com",
				Subject: "Thanks for shopping",
			},
			wantVendor:     "takealot",
			wantConfidence: 0.5,
		},
		{
			name: "subject alone is below threshold",
			msg: InboundMessage{
				From:    "noreply@example.com",
				Subject: "Your takealot order",
			},
			wantVendor: "",
		},
		{
			name: "subject plus body clears threshold",
			msg: InboundMessage{
				From:     "noreply@example.com",
				Subject:  "Your takealot order",
				BodyText: "Your Takealot Order has shipped",
			},
			wantVendor:     "takealot",
			wantConfidence: 0.5,
		},
		{
			name: "all three categories",
			msg: InboundMessage{
				From:     "orders@takealot.com",
				Subject:  "takealot order confirmed",
				BodyText: "your takealot order #12345",
			},
			wantVendor:     "takealot",
			wantConfidence: 1.0,
		},
		{
			name: "display name address form",
			msg: InboundMessage{
				From: "Woolworths Online <orders@woolworths.co.za>",
			},
			wantVendor:     "woolworths",
			wantConfidence: 0.5,
		},
		{
			name: "no signal at all",
			msg: InboundMessage{
				From:     "billing@example.com",
				Subject:  "Invoice attached",
				BodyText: "see attachment",
			},
			wantVendor: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := id.Identify(tt.msg)
			assert.Equal(t, tt.wantVendor, got.Vendor)
			if tt.wantVendor != "" {
				assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			} else {
				assert.Zero(t, got.Confidence)
			}
		})
	}
}

func TestIdentifyFirstMatchWins(t *testing.T) {
	// Both vendors would clear the threshold; pattern order decides.
	patterns := []Pattern{
		{Name: "first", DomainPatterns: []string{`shared\.example$`}},
		{Name: "second", DomainPatterns: []string{`shared\.example$`}},
	}
	id, err := NewIdentifier(patterns)
	require.NoError(t, err)

	got := id.Identify(InboundMessage{From: "billing@shared.example"})
	assert.Equal(t, "first", got.Vendor)
}

func TestIdentifyHitsDoNotCompoundWithinCategory(t *testing.T) {
	patterns := []Pattern{{
		Name:            "multi",
		SubjectPatterns: []string{`order`, `receipt`},
		BodyPhrases:     []string{"thank you", "your purchase"},
	}}
	id, err := NewIdentifier(patterns)
	require.NoError(t, err)

	// Two subject hits and two body hits still score 0.3 + 0.2.
	got := id.Identify(InboundMessage{
		Subject:  "order receipt",
		BodyText: "thank you for your purchase",
	})
	assert.Equal(t, "multi", got.Vendor)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestIdentifyBodyScanLimit(t *testing.T) {
	patterns := []Pattern{{
		Name:            "late",
		SubjectPatterns: []string{`late`},
		BodyPhrases:     []string{"hidden phrase"},
	}}
	id, err := NewIdentifier(patterns)
	require.NoError(t, err)

	// Phrase beyond the scanned head must not count.
	body := strings.Repeat("x", bodyScanLimit) + " hidden phrase"
	got := id.Identify(InboundMessage{Subject: "late notice", BodyText: body})
	assert.Empty(t, got.Vendor, "subject alone is 0.3, body phrase past the limit must not add 0.2")
}

func TestIdentifyIsDeterministic(t *testing.T) {
	id, err := NewIdentifier(DefaultPatterns())
	require.NoError(t, err)

	msg := InboundMessage{
		From:     "orders@takealot.com",
		Subject:  "Your order has been confirmed",
		BodyText: "Thank you for your Takealot order",
	}

	first := id.Identify(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, id.Identify(msg))
	}
}

func TestNewIdentifierRejectsBadPattern(t *testing.T) {
	_, err := NewIdentifier([]Pattern{{Name: "bad", DomainPatterns: []string{`(`}}})
	assert.Error(t, err)
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"bare address", "orders@takealot.com", "takealot.com"},
		{"display name form", "Takealot <orders@takealot.com>", "takealot.com"},
		{"uppercase domain", "ORDERS@TAKEALOT.COM", "takealot.com"},
		{"no at sign", "not-an-address", ""},
		{"trailing at", "broken@", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, senderDomain(tt.from))
		})
	}
}
