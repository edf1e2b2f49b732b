package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"github.com/tidwall/jsonc"

	"github.com/adamavenir/noci/internal/types"
)

var validate = validator.New()

type registration struct {
	Name string `validate:"required,excludesall=/ "`
	URL  string `validate:"required,url"`
}

func validateRegistration(name, url string) error {
	reg := registration{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)}
	if err := validate.Struct(reg); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			field := fields[0]
			value := reg.Name
			if field.Field() == "URL" {
				value = reg.URL
			}
			return malformedf(value, "invalid %s (%s)", strings.ToLower(field.Field()), field.Tag())
		}
		return malformedf("", "invalid registration: %v", err)
	}
	return nil
}

// parsePayload parses a user-supplied JSON document. Comments and trailing
// commas are accepted and stripped before the payload is sent.
func parsePayload(raw string) (json.RawMessage, error) {
	data := jsonc.ToJSON([]byte(raw))
	if !json.Valid(data) {
		return nil, malformedf(raw, "payload json not valid")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, malformedf(raw, "payload json not valid")
	}
	return json.RawMessage(buf.Bytes()), nil
}

// parseParams parses k=v pairs. The value may itself contain '='.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, malformedf(pair, "param must be key=value")
		}
		params[strings.TrimSpace(k)] = v
	}
	return params, nil
}

func filterTriggers(triggers []types.Trigger, pattern string) ([]types.Trigger, error) {
	if pattern == "" {
		return triggers, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, malformedf(pattern, "invalid filter: %v", err)
	}
	out := make([]types.Trigger, 0, len(triggers))
	for _, trigger := range triggers {
		if g.Match(trigger.Name) {
			out = append(out, trigger)
		}
	}
	return out, nil
}

func optionalString(value string, set bool) *string {
	if !set {
		return nil
	}
	return &value
}

func describeBool(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
