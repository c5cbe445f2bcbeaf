package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/core_data/note_format_instructions.txt
var NoteFormatInstructionsTxt []byte

//go:embed data/prompts/melody_prompt.txt
var MelodyPromptTxt []byte

//go:embed data/prompts/continuation_prompt.txt
var ContinuationPromptTxt []byte

//go:embed data/prompts/harmony_prompt.txt
var HarmonyPromptTxt []byte

//go:embed data/prompts/drums_prompt.txt
var DrumsPromptTxt []byte

//go:embed data/prompts/vocal_prompt.txt
var VocalPromptTxt []byte

//go:embed data/prompts/lyrics_prompt.txt
var LyricsPromptTxt []byte
