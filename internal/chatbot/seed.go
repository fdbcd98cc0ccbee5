package chatbot

import (
	"fmt"
	"os"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"gopkg.in/yaml.v3"
)

// faqSeedFile is the layout of the FAQ seed file
type faqSeedFile struct {
	FAQs []faqSeed `yaml:"faqs"`
}

type faqSeed struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Keywords []string `yaml:"keywords"`
	Inactive bool     `yaml:"inactive"`
}

// LoadFAQSeed reads FAQ entries from a YAML file
func LoadFAQSeed(path string) ([]*model.FAQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ seed file: %w", err)
	}
	return ParseFAQSeed(data)
}

// ParseFAQSeed parses FAQ entries from YAML. Entries without an answer or
// without keywords are rejected.
func ParseFAQSeed(data []byte) ([]*model.FAQ, error) {
	var file faqSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse FAQ seed: %w", err)
	}

	faqs := make([]*model.FAQ, 0, len(file.FAQs))
	for i, s := range file.FAQs {
		var keywords []string
		for _, k := range s.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		if strings.TrimSpace(s.Answer) == "" {
			return nil, fmt.Errorf("faq %d: answer is required", i+1)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("faq %d: at least one keyword is required", i+1)
		}
		faqs = append(faqs, &model.FAQ{
			Question: s.Question,
			Answer:   s.Answer,
			Keywords: strings.Join(keywords, ","),
			IsActive: !s.Inactive,
		})
	}
	return faqs, nil
}
