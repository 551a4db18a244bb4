package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mergington/activities/internal/domain/model"
)

// entry is one item of the YAML catalogue. Activities are a list rather than
// a map so names may contain the koanf key delimiter.
type entry struct {
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	Schedule        string   `koanf:"schedule"`
	MaxParticipants int      `koanf:"max_participants"`
	Participants    []string `koanf:"participants"`
}

type catalogue struct {
	Activities []entry `koanf:"activities"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a YAML catalogue of the form:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
func LoadFile(_ context.Context, path string) (map[string]model.Activity, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSeed, path, err)
	}

	var c catalogue
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSeed, path, err)
	}
	if len(c.Activities) == 0 {
		return nil, fmt.Errorf("%w: %s: no activities", ErrInvalidSeed, path)
	}

	out := make(map[string]model.Activity, len(c.Activities))
	for i, e := range c.Activities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: activity #%d has no name", ErrInvalidSeed, i+1)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateActivity, name)
		}
		a := model.Activity{
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    e.Participants,
		}
		if err := validate.Struct(a); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSeed, name, err)
		}
		out[name] = a.Clone()
	}
	return out, nil
}
