// pretrained.go - Registry bekannter vortrainierter Gewichte
//
// Definiert bekannte (Architektur, Tag) -> URL Zuordnungen fuer
// OpenAI- und LAION-Checkpoints.
package pretrained

import (
	"sort"
	"strings"

	"github.com/7blacky7/openclip-go/config"
)

// TagOpenAI ist der reservierte Tag fuer Original-Provider-Gewichte.
const TagOpenAI = "openai"

const (
	openaiBaseURL  = "https://openaipublic.azureedge.net/clip/models/"
	releaseBaseURL = "https://github.com/mlfoundations/open_clip/releases/download/v0.2-weights/"
)

// knownWeights ordnet Architektur -> Tag -> Download-URL zu.
var knownWeights = map[string]map[string]string{
	"RN50": {
		TagOpenAI: openaiBaseURL + "afeb0e10f9e5a86da6080e35cf09123aca3b358a0c3e3b6c78a7b63bc04b6762/RN50.pt",
		"yfcc15m": releaseBaseURL + "rn50-quickgelu-yfcc15m-455df137.pt",
		"cc12m":   releaseBaseURL + "rn50-quickgelu-cc12m-f000538c.pt",
	},
	"RN101": {
		TagOpenAI: openaiBaseURL + "8fa8567bab74a42d41c5915025a8e4538c3bdbe8804a470a72f30b0d94fab599/RN101.pt",
		"yfcc15m": releaseBaseURL + "rn101-quickgelu-yfcc15m-3e04b30e.pt",
	},
	"RN50x4": {
		TagOpenAI: openaiBaseURL + "7e526bd135e493cef0776de27d5f42653e6b4c8bf9e0f653bb11773263205fdd/RN50x4.pt",
	},
	"ViT-B-32": {
		TagOpenAI:       openaiBaseURL + "40d365715913c9da98579312b702a82c18be219cc2a73407c4526f58eba950af/ViT-B-32.pt",
		"laion400m_e31": releaseBaseURL + "vit_b_32-quickgelu-laion400m_e31-d867053b.pt",
		"laion400m_e32": releaseBaseURL + "vit_b_32-quickgelu-laion400m_e32-46683a32.pt",
	},
	"ViT-B-16": {
		TagOpenAI:       openaiBaseURL + "5806e77cd80f8b59890b7e101eabd078d9fb84e6937f9e85e4ecb61988df416f/ViT-B-16.pt",
		"laion400m_e31": releaseBaseURL + "vit_b_16-laion400m_e31-00efa78f.pt",
		"laion400m_e32": releaseBaseURL + "vit_b_16-laion400m_e32-55e67d44.pt",
	},
	"ViT-L-14": {
		TagOpenAI: openaiBaseURL + "b8cca3fd41ae0c99ba7e8951adf17d267cdb84cd88be6f7c2e0eca1737a03836/ViT-L-14.pt",
	},
}

// GetURL gibt die Download-URL fuer (Architektur, Tag) zurueck.
// Leerer String wenn die Kombination unbekannt ist.
func GetURL(model, tag string) string {
	tags, ok := knownWeights[model]
	if !ok {
		return ""
	}
	return tags[strings.ToLower(tag)]
}

// Has prueft ob fuer (Architektur, Tag) Gewichte bekannt sind.
func Has(model, tag string) bool {
	return GetURL(model, tag) != ""
}

// Tags gibt alle bekannten Tags einer Architektur zurueck (sortiert).
func Tags(model string) []string {
	tags := make([]string, 0, len(knownWeights[model]))
	for tag := range knownWeights[model] {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// List gibt alle bekannten "Architektur:Tag" Paare in natuerlicher
// Ordnung zurueck.
func List() []string {
	models := make([]string, 0, len(knownWeights))
	for model := range knownWeights {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool {
		return config.NaturalCompare(models[i], models[j]) < 0
	})

	var out []string
	for _, model := range models {
		for _, tag := range Tags(model) {
			out = append(out, model+":"+tag)
		}
	}
	return out
}
