package ollama

import "fmt"

var languageNames = map[string]string{
	"eng": "English",
	"deu": "German",
	"fra": "French",
	"spa": "Spanish",
	"rus": "Russian",
	"ita": "Italian",
	"por": "Portuguese",
}

func buildTranscriptionPrompt(languageHint string) string {
	language := languageNames[languageHint]
	if language == "" {
		language = languageHint
	}
	if language == "" {
		language = "English"
	}

	return fmt.Sprintf(`You are an OCR engine.
Transcribe every piece of text visible in the image, in reading order.
The text is expected to be in %s.
Output only the transcribed text. No commentary, no markdown.
If the image contains no text, output nothing.`, language)
}
