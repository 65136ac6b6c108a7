// Package analysis talks to an optional local OpenAI-compatible endpoint to
// produce short metadata-based summaries of shows and episodes. The archive
// works fully without it; callers treat failures as "analysis unavailable".
package analysis
