// Package merchant classifies inbound purchase messages as belonging
// to a known merchant before any field extraction runs.
package merchant

import (
	"fmt"
	"regexp"
	"strings"
)

// Scoring weights and acceptance threshold. These are hand-tuned
// policy values, not derived constants; keep them in sync with the
// documented matching behavior when changing them.
const (
	domainWeight    = 0.5
	subjectWeight   = 0.3
	bodyWeight      = 0.2
	acceptThreshold = 0.5

	// Only the head of the body is scanned for phrases. Promotional
	// footers routinely name other merchants.
	bodyScanLimit = 5000
)

// Pattern is a static classification rule for one merchant: weighted
// matchers over the sender domain, the subject line, and the body.
type Pattern struct {
	Name            string
	DomainPatterns  []string // regexes matched against the sender's domain
	SubjectPatterns []string // regexes matched against the subject line
	BodyPhrases     []string // literal phrases searched in the body head
}

// InboundMessage is the raw material for vendor identification.
type InboundMessage struct {
	Subject  string
	From     string
	BodyText string
}

// Identification is the result of classifying an inbound message.
// Vendor is empty when no merchant cleared the acceptance threshold.
type Identification struct {
	Vendor     string
	Confidence float64
}

type compiledPattern struct {
	name     string
	domains  []*regexp.Regexp
	subjects []*regexp.Regexp
	phrases  []string
}

// Identifier evaluates inbound messages against a configured, ordered
// list of merchant patterns. Pattern order is significant: the first
// merchant to clear the threshold wins.
type Identifier struct {
	patterns []compiledPattern
}

// NewIdentifier compiles the given patterns, preserving their order.
func NewIdentifier(patterns []Pattern) (*Identifier, error) {
	compiled := make([]compiledPattern, 0, len(patterns))

	for _, p := range patterns {
		cp := compiledPattern{name: p.Name}

		for _, expr := range p.DomainPatterns {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("failed to compile domain pattern %q for %s: %w", expr, p.Name, err)
			}
			cp.domains = append(cp.domains, re)
		}
		for _, expr := range p.SubjectPatterns {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("failed to compile subject pattern %q for %s: %w", expr, p.Name, err)
			}
			cp.subjects = append(cp.subjects, re)
		}
		for _, phrase := range p.BodyPhrases {
			cp.phrases = append(cp.phrases, strings.ToLower(phrase))
		}

		compiled = append(compiled, cp)
	}

	return &Identifier{patterns: compiled}, nil
}

// Identify scores the message against each merchant pattern in order
// and returns the first merchant whose score reaches the acceptance
// threshold. Hits within one matcher category do not compound.
func (id *Identifier) Identify(msg InboundMessage) Identification {
	domain := senderDomain(msg.From)
	body := strings.ToLower(bodyHead(msg.BodyText))

	for _, p := range id.patterns {
		score := 0.0

		for _, re := range p.domains {
			if domain != "" && re.MatchString(domain) {
				score += domainWeight
				break
			}
		}
		for _, re := range p.subjects {
			if re.MatchString(msg.Subject) {
				score += subjectWeight
				break
			}
		}
		for _, phrase := range p.phrases {
			if phrase != "" && strings.Contains(body, phrase) {
				score += bodyWeight
				break
			}
		}

		if score >= acceptThreshold {
			return Identification{Vendor: p.name, Confidence: score}
		}
	}

	return Identification{}
}

// senderDomain extracts the domain from a From header value, handling
// both bare addresses and "Display Name <user@host>" forms.
func senderDomain(from string) string {
	addr := from
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.Index(from[start:], ">"); end != -1 {
			addr = from[start+1 : start+end]
		}
	}

	at := strings.LastIndex(addr, "@")
	if at == -1 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[at+1:]))
}

func bodyHead(body string) string {
	if len(body) <= bodyScanLimit {
		return body
	}
	return body[:bodyScanLimit]
}
