package subtitle

import "path/filepath"

// File is a parsed subtitle file.
type File interface {
	Format() Format
	Subtitle() *Subtitle
}

// Open parses an SRT or ASS/SSA file, chosen by extension.
func Open(path string) (File, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if format == FormatASS {
		return parseASSFile(path)
	}
	return parseSRTFile(path)
}

// OpenScript parses a script file for burning.
func OpenScript(path string) (*ScriptFile, error) {
	return parseASSFile(path)
}
