package analysis

// summarizeInstruction drives the per-batch map calls. Each batch sees only
// its own files, so the instruction asks for self-contained observations that
// a later pass can merge.
const summarizeInstruction = `You are an expert code analyst. You will receive one batch of source files from a larger repository. Summarize this batch on its own:

1. What the files do and how they relate to each other.
2. Languages, frameworks, and notable libraries in use.
3. Code quality observations: structure, naming, error handling, documentation.
4. Potential problems or risks worth flagging.

Be specific and cite file paths. Do not speculate about files you were not shown.`

// synthesisInstruction drives the single reduce call over all batch summaries.
const synthesisInstruction = `You are an expert code analyst and software architect. You will receive several partial summaries, each covering one batch of files from the same repository. Merge them into one coherent, structured report covering:

1. **Purpose & Functionality**: what the repository does overall.
2. **Architecture & Structure**: how the code is organized and the patterns used.
3. **Languages & Technologies**: languages, frameworks, tools, and build systems.
4. **Code Quality**: readability, modularity, naming, error handling.
5. **Best Practices**: adherence to conventions, documentation, testing.
6. **Security Considerations**: potential vulnerabilities and unsafe patterns.
7. **Recommendations**: specific, actionable improvements.

Merge overlapping observations instead of repeating them. Start the report with a single-sentence overview line.`

// synthesisFallbackNote prefixes the raw concatenation of batch summaries when
// the synthesis call itself fails.
const synthesisFallbackNote = `[Synthesis unavailable — the following are verbatim per-batch summaries.]`

// truncationMarker is appended to a rendered payload cut down to the prompt
// ceiling. Truncation is a degradation, not an error.
const truncationMarker = "\n\n[Content truncated due to length...]"
