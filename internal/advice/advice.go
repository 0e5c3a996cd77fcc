// Package advice is a small static knowledge base of treatment and
// prevention guidance keyed by normalized disease slug. The backing table is
// immutable; lookups return copies.
package advice

import (
	"fmt"

	"github.com/verdant-labs/cropscan/internal/model"
	"github.com/verdant-labs/cropscan/internal/vocab"
)

// Lookup returns the advisory for a disease slug. The slug is normalized
// before lookup, so detailed labels and loosely formatted slugs both work.
// Unknown slugs get the generic entry annotated with the original input;
// there is no error case.
func Lookup(slug string) model.Advisory {
	key := vocab.NormalizeSlug(slug)
	if entry, ok := diseaseDB[key]; ok {
		return copyEntry(entry)
	}
	out := copyEntry(defaultEntry)
	if slug != "" {
		out.FriendlyName = fmt.Sprintf("Unknown (%s)", slug)
	}
	return out
}

// All returns a copy of the whole knowledge base keyed by normalized slug.
func All() map[string]model.Advisory {
	out := make(map[string]model.Advisory, len(diseaseDB))
	for k, v := range diseaseDB {
		out[k] = copyEntry(v)
	}
	return out
}

func copyEntry(e model.Advisory) model.Advisory {
	cp := e
	cp.ExampleClasses = make([]string, len(e.ExampleClasses))
	copy(cp.ExampleClasses, e.ExampleClasses)
	return cp
}

var defaultEntry = model.Advisory{
	FriendlyName: "Unknown / Not found",
	Treatment: "No specific treatment available for this detected class. " +
		"Collect a clear photo, note symptoms (spots, wilting, discoloration), " +
		"and consult your local agricultural extension office or a trusted crop specialist.",
	Prevention: "General good practices: use certified seed/planting material, rotate crops, " +
		"ensure balanced fertilization, avoid waterlogging, and monitor frequently.",
	ExampleClasses: []string{},
}

var diseaseDB = map[string]model.Advisory{
	"tomato_late_blight": {
		FriendlyName: "Tomato — Late Blight",
		Treatment: "Remove and safely destroy heavily infected plants and plant parts. " +
			"Improve air circulation by pruning dense foliage. Use copper-based " +
			"organic fungicides or registered fungicides when disease pressure is high; " +
			"follow product label instructions and local extension guidance.",
		Prevention: "Plant resistant varieties where available, avoid overhead irrigation, " +
			"rotate crops (avoid planting solanaceous crops on the same site year-to-year), " +
			"and ensure adequate spacing for airflow. Monitor regularly and remove volunteer plants.",
		ExampleClasses: []string{"Tomato___Late_blight", "Tomato___Healthy"},
	},
	"tomato_healthy": {
		FriendlyName:   "Tomato — Healthy",
		Treatment:      "No treatment required. Maintain good cultural practices and monitor for pests/diseases.",
		Prevention:     "Maintain balanced fertilization, regular monitoring and sanitation to keep plants healthy.",
		ExampleClasses: []string{"Tomato___Healthy"},
	},
	"potato_early_blight": {
		FriendlyName: "Potato — Early Blight",
		Treatment: "Remove affected foliage and tubers for disposal. Apply approved fungicides when necessary " +
			"and follow local recommendations and label directions.",
		Prevention: "Practice crop rotation, plant certified seed, avoid excess nitrogen fertilization, " +
			"and improve drainage and airflow.",
		ExampleClasses: []string{"Potato___Early_blight", "Potato___Healthy"},
	},
	"potato_healthy": {
		FriendlyName: "Potato — Healthy",
		Treatment:    "No treatment needed. Continue routine crop management and scouting.",
		Prevention:   "Use certified seed, rotate crops, and follow good irrigation and nutrient management.",
	},
	"corn_common_rust": {
		FriendlyName: "Maize/Corn — Common Rust",
		Treatment: "Rust is often managed by planting resistant hybrids and timely fungicide applications " +
			"when thresholds are reached. Consult local extension services for thresholds and products.",
		Prevention: "Use resistant varieties, rotate crops where possible, and avoid excessive plant density. " +
			"Monitor fields and manage volunteer host plants.",
		ExampleClasses: []string{"Corn___Common_rust", "Corn___Healthy"},
	},
	"corn_healthy": {
		FriendlyName: "Corn — Healthy",
		Treatment:    "No treatment required.",
		Prevention:   "Maintain best agronomic practices and monitor for pests and diseases.",
	},
}
