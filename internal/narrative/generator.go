package narrative

import (
	"fmt"
	"strings"
)

// GeneratorInput carries the facts a press narrative is built from. All
// generated text is English; translation happens downstream.
type GeneratorInput struct {
	Company      string
	Headline     string
	Announcement string
	Spokesperson string
	Quote        string
	Tone         string
}

// Tones the generator understands. Unknown tones fall back to neutral.
const (
	ToneNeutral       = "neutral"
	ToneCelebratory   = "celebratory"
	ToneReassuring    = "reassuring"
	ToneAuthoritative = "authoritative"
)

var toneOpeners = map[string]string{
	ToneNeutral:       "%s today announced %s.",
	ToneCelebratory:   "%s is proud to announce %s.",
	ToneReassuring:    "%s today shared an update on %s.",
	ToneAuthoritative: "%s has formally announced %s.",
}

// Topic keywords steer the closing boilerplate. First match wins, in this
// order.
var topicClosers = []struct {
	keywords []string
	closer   string
}{
	{
		keywords: []string{"crisis", "incident", "outage", "recall", "apology"},
		closer:   "The company is working closely with affected stakeholders and will share further updates as the situation develops.",
	},
	{
		keywords: []string{"funding", "investment", "series", "raise"},
		closer:   "The new capital will support the company's continued growth and product development.",
	},
	{
		keywords: []string{"launch", "release", "unveil", "introduce"},
		closer:   "The offering is available immediately; details are published on the company's website.",
	},
	{
		keywords: []string{"partnership", "collaboration", "alliance"},
		closer:   "Both organizations expect the collaboration to deliver value to their combined customer base.",
	},
}

const defaultCloser = "Further information is available from the company's press office."

// Generate builds an English press narrative from the input. The result is
// deterministic for a given input.
func Generate(input GeneratorInput) string {
	company := strings.TrimSpace(input.Company)
	if company == "" {
		company = "The company"
	}
	announcement := strings.TrimSpace(input.Announcement)
	if announcement == "" {
		announcement = strings.TrimSpace(input.Headline)
	}
	if announcement == "" {
		return ""
	}

	opener, ok := toneOpeners[strings.ToLower(strings.TrimSpace(input.Tone))]
	if !ok {
		opener = toneOpeners[ToneNeutral]
	}

	paragraphs := make([]string, 0, 4)
	if headline := strings.TrimSpace(input.Headline); headline != "" {
		paragraphs = append(paragraphs, headline)
	}
	paragraphs = append(paragraphs, fmt.Sprintf(opener, company, announcement))

	if quote := strings.TrimSpace(input.Quote); quote != "" {
		spokesperson := strings.TrimSpace(input.Spokesperson)
		if spokesperson == "" {
			spokesperson = "a company spokesperson"
		}
		paragraphs = append(paragraphs, fmt.Sprintf("%q said %s.", quote, spokesperson))
	}

	paragraphs = append(paragraphs, closerFor(announcement))
	return strings.Join(paragraphs, "\n\n")
}

func closerFor(announcement string) string {
	lowered := strings.ToLower(announcement)
	for _, topic := range topicClosers {
		for _, keyword := range topic.keywords {
			if strings.Contains(lowered, keyword) {
				return topic.closer
			}
		}
	}
	return defaultCloser
}
