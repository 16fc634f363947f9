package models

// PromptProfile holds the wording of one digest variant: what the model is asked and
// how the resulting email greets, labels and signs off.
type PromptProfile struct {
	Name         string  `yaml:"-"`
	Language     string  `yaml:"language"`
	DateLayout   string  `yaml:"date_layout"`
	SystemPrompt string  `yaml:"system_prompt"`
	UserPrompt   string  `yaml:"user_prompt"`
	Subject      string  `yaml:"subject"`
	Greeting     string  `yaml:"greeting"`
	Intro        string  `yaml:"intro"`
	Closing      string  `yaml:"closing"`
	Title        string  `yaml:"title"`
	Labels       []Label `yaml:"labels"`
}

// Label is a field name the model is asked to emit, relabeled with an icon in HTML output.
type Label struct {
	Text string `yaml:"text"`
	Icon string `yaml:"icon"`
}
