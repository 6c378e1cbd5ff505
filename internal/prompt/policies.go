package prompt

import "github.com/tutorgate/tutorgate/internal/config"

// templates maps endpoint names to their turn templates. Endpoints
// absent here run in free mode.
var templates = map[string]Template{
	config.EndpointMCQ:        MCQ,
	config.EndpointSummarize:  Summarize,
	config.EndpointVideo:      VideoScript,
	config.EndpointConceptMap: ConceptMap,
}

// FromConfig binds configured endpoint parameters to their templates.
func FromConfig(endpoints map[string]config.EndpointPolicy) map[string]Policy {
	policies := make(map[string]Policy, len(endpoints))
	for name, ep := range endpoints {
		policies[name] = Policy{
			Model:       ep.Model,
			MaxTokens:   ep.MaxTokens,
			Temperature: ep.Temperature,
			Template:    templates[name],
		}
	}
	return policies
}
