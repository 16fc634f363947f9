package prompts

import (
	_ "embed"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kova98/aidigest/models"
)

//go:embed profiles.yaml
var builtinProfiles []byte

const datePlaceholder = "{date}"

var ErrUnknownProfile = errors.New("unknown prompt profile")

// Parse decodes a YAML document mapping profile names to profiles.
func Parse(raw []byte) (map[string]models.PromptProfile, error) {
	var profiles map[string]models.PromptProfile
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return nil, errors.Wrap(err, "parse prompt profiles")
	}

	for name, p := range profiles {
		p.Name = name
		if strings.TrimSpace(p.SystemPrompt) == "" || strings.TrimSpace(p.UserPrompt) == "" {
			return nil, errors.Errorf("prompt profile %q: system_prompt and user_prompt are required", name)
		}
		if p.DateLayout == "" {
			p.DateLayout = "02/01/2006"
		}
		profiles[name] = p
	}

	return profiles, nil
}

// Load returns one of the built-in profiles.
func Load(name string) (models.PromptProfile, error) {
	profiles, err := Parse(builtinProfiles)
	if err != nil {
		return models.PromptProfile{}, err
	}

	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.PromptProfile{}, errors.Wrapf(ErrUnknownProfile, "%q (available: %s)", name, strings.Join(names(profiles), ", "))
	}
	return p, nil
}

// Names lists the built-in profile names.
func Names() []string {
	profiles, err := Parse(builtinProfiles)
	if err != nil {
		return nil
	}
	return names(profiles)
}

// Stamp replaces the date placeholder in s with date formatted per the profile.
func Stamp(p models.PromptProfile, s string, date time.Time) string {
	return strings.ReplaceAll(s, datePlaceholder, date.Format(p.DateLayout))
}

func names(profiles map[string]models.PromptProfile) []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
