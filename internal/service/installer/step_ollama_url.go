package installer

func NewOllamaURLStep() Step {
	return newTextStep("Enter Ollama Base URL:", keyOllamaURL, "http://127.0.0.1:11434", true,
		func(state *InstallState) bool { return state.provider() != "ollama" })
}

func NewHTTPAddrStep() Step {
	return newTextStep("HTTP API listen address:", keyHTTPAddr, ":8080", true,
		func(state *InstallState) bool { return state.EnvVars[keyEnableHTTP] != "true" })
}
