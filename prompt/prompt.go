// Package prompt builds the instruction sent to the completion endpoint.
package prompt

import (
	"fmt"
	"strings"
)

// Topics the reply is asked to cover, in order
var Topics = []string{
	"Key Statistics",
	"Recovery Options",
	"Recommended Medications",
	"Global Distribution",
}

// Keys the reply is asked to use
var Keys = []string{
	"name",
	"statistics",
	"total_cases",
	"recovery_rate",
	"mortality_rate",
	"recovery_options",
	"medication",
	"global_distribution",
}

// MedicationFormat is the literal shape shown to the model for each
// medication entry
const MedicationFormat = `"name":""
    "side_effects":[
    0:""
    1:""
    ...
    ]
    "dosage":""`

// Build returns the instruction for disease. The name is embedded as given;
// callers decide whether an empty name is worth sending.
func Build(disease string) string {
	topics := make([]string, len(Topics))
	for i, topic := range Topics {
		topics[i] = fmt.Sprintf("%d. %s", i+1, topic)
	}

	keys := make([]string, len(Keys))
	for i, key := range Keys {
		keys[i] = "'" + key + "'"
		if key == "medication" {
			keys[i] += " (always use this json format for medication: " + MedicationFormat + ")"
		}
	}
	last := len(keys) - 1
	keys[last] = "and " + keys[last]

	return fmt.Sprintf(
		"Please provide information on the following aspects for %s: %s. Format the response in JSON with keys for %s.",
		disease,
		strings.Join(topics, ", "),
		strings.Join(keys, ", "),
	)
}
