package provider

// ModelInfo describes a known model's capabilities. Unknown model IDs
// are passed to the backend as-is with all capabilities assumed.
type ModelInfo struct {
	ID                        string
	Name                      string
	APIName                   string
	SupportsThinking          bool
	SupportsSystemInstruction bool
}

// Models lists the Gemini models the settings UI offers by default.
var Models = []ModelInfo{
	{
		ID:                        "gemini-3-pro",
		Name:                      "Gemini 3.0 Pro",
		APIName:                   "gemini-3-pro-preview",
		SupportsThinking:          true,
		SupportsSystemInstruction: true,
	},
	{
		ID:                        "gemini-2.5-pro",
		Name:                      "Gemini 2.5 Pro",
		APIName:                   "gemini-2.5-pro",
		SupportsThinking:          true,
		SupportsSystemInstruction: true,
	},
	{
		ID:                        "gemini-2.5-flash",
		Name:                      "Gemini 2.5 Flash",
		APIName:                   "gemini-2.5-flash",
		SupportsThinking:          true,
		SupportsSystemInstruction: true,
	},
	{
		ID:                        "gemini-2.5-flash-lite",
		Name:                      "Gemini 2.5 Flash Lite",
		APIName:                   "gemini-2.5-flash-lite",
		SupportsThinking:          true,
		SupportsSystemInstruction: true,
	},
}

// LookupModel resolves a model ID or API name to its ModelInfo. The
// second return reports whether the model is known.
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range Models {
		if m.ID == id || m.APIName == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// levelModels take a thinking level instead of a token budget.
var levelModels = map[string]bool{
	"gemini-3-pro-preview": true,
}

// UsesThinkingLevel reports whether the model expects a named thinking
// level rather than a numeric budget.
func UsesThinkingLevel(apiName string) bool {
	return levelModels[apiName]
}
