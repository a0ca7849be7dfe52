// Package configs embeds the default advisor persona and knowledge document.
// Files of the same name in the runtime directory take precedence.
package configs

import _ "embed"

//go:embed PERSONA.md
var Persona string

//go:embed KNOWLEDGE.md
var Knowledge string

// KnowledgePlaceholder marks where the knowledge document is spliced into the persona.
const KnowledgePlaceholder = "{{KNOWLEDGE}}"
