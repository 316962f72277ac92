package seed

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const catalogPathEnv = "SEED_CATALOG_PATH"

//go:embed catalog.yaml
var catalogFS embed.FS

// Catalog is the starter content applied on first boot when the topic table
// is empty.
type Catalog struct {
	Topics []Topic `yaml:"topics"`
}

type Topic struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Questions   []Question  `yaml:"questions"`
	Flashcards  []Flashcard `yaml:"flashcards"`
	Scenarios   []Scenario  `yaml:"scenarios"`
	Puzzles     []Puzzle    `yaml:"puzzles"`
}

type Question struct {
	Text          string   `yaml:"text"`
	Explanation   string   `yaml:"explanation"`
	Eli5          string   `yaml:"eli5"`
	CorrectAnswer string   `yaml:"correct_answer"`
	WrongAnswers  []string `yaml:"wrong_answers"`
}

type Flashcard struct {
	Front string `yaml:"front"`
	Back  string `yaml:"back"`
	Hint  string `yaml:"hint"`
}

type Scenario struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Nodes       []ScenarioNode `yaml:"nodes"`
}

// ScenarioNode doubles as the persisted JSON shape, hence the json tags.
type ScenarioNode struct {
	ID      string           `yaml:"id" json:"id"`
	Text    string           `yaml:"text" json:"text"`
	Choices []ScenarioChoice `yaml:"choices" json:"choices,omitempty"`
}

type ScenarioChoice struct {
	Text    string `yaml:"text" json:"text"`
	Next    string `yaml:"next" json:"next,omitempty"`
	Outcome string `yaml:"outcome" json:"outcome,omitempty"`
}

type Puzzle struct {
	Title  string   `yaml:"title"`
	Prompt string   `yaml:"prompt"`
	Steps  []string `yaml:"steps"`
}

// Load reads the starter catalog, from SEED_CATALOG_PATH when set, otherwise
// from the embedded copy.
func Load() (*Catalog, error) {
	data, err := readCatalog()
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	if err := validateCatalog(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func readCatalog() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(catalogPathEnv)); path != "" {
		return os.ReadFile(path)
	}
	return catalogFS.ReadFile("catalog.yaml")
}

func validateCatalog(cat *Catalog) error {
	if cat == nil || len(cat.Topics) == 0 {
		return errors.New("no topics defined")
	}
	seen := map[string]bool{}
	for _, topic := range cat.Topics {
		name := strings.TrimSpace(topic.Name)
		if name == "" {
			return errors.New("topic name is required")
		}
		if seen[name] {
			return fmt.Errorf("duplicate topic: %s", name)
		}
		seen[name] = true

		for _, q := range topic.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return fmt.Errorf("topic %s: question text is required", name)
			}
			if strings.TrimSpace(q.CorrectAnswer) == "" {
				return fmt.Errorf("topic %s: question %q: correct_answer is required", name, q.Text)
			}
			if len(q.WrongAnswers) == 0 {
				return fmt.Errorf("topic %s: question %q: at least one wrong answer is required", name, q.Text)
			}
		}
		for _, f := range topic.Flashcards {
			if strings.TrimSpace(f.Front) == "" || strings.TrimSpace(f.Back) == "" {
				return fmt.Errorf("topic %s: flashcards need front and back text", name)
			}
		}
		for _, sc := range topic.Scenarios {
			if strings.TrimSpace(sc.Title) == "" {
				return fmt.Errorf("topic %s: scenario title is required", name)
			}
			if len(sc.Nodes) == 0 {
				return fmt.Errorf("topic %s: scenario %q has no nodes", name, sc.Title)
			}
			nodeIDs := map[string]bool{}
			for _, node := range sc.Nodes {
				if strings.TrimSpace(node.ID) == "" {
					return fmt.Errorf("topic %s: scenario %q: node id is required", name, sc.Title)
				}
				nodeIDs[node.ID] = true
			}
			for _, node := range sc.Nodes {
				for _, choice := range node.Choices {
					if choice.Next != "" && !nodeIDs[choice.Next] {
						return fmt.Errorf("topic %s: scenario %q: node %s points at unknown node %s",
							name, sc.Title, node.ID, choice.Next)
					}
				}
			}
		}
		for _, p := range topic.Puzzles {
			if strings.TrimSpace(p.Title) == "" {
				return fmt.Errorf("topic %s: puzzle title is required", name)
			}
			if len(p.Steps) < 2 {
				return fmt.Errorf("topic %s: puzzle %q needs at least two steps", name, p.Title)
			}
		}
	}
	return nil
}
