package constants

import "strings"

// FileFormat is the declared document class of an uploaded contract.
type FileFormat string

const (
	PDF   FileFormat = "PDF"
	DOCX  FileFormat = "DOCX"
	TXT   FileFormat = "TXT"
	RTF   FileFormat = "RTF"
	ODT   FileFormat = "ODT"
	OTHER FileFormat = "OTHER"
)

// FileFormats holds the allowed document formats for contract uploads.
var FileFormats = []FileFormat{PDF, DOCX, TXT, RTF, ODT}

// AllowedExtensions holds the default allowed file extensions for contract uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"txt":  {},
	"text": {},
	"md":   {},
	"rtf":  {},
	"odt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat resolves a file extension to its document format.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "txt", "text", "md":
		return TXT
	case "rtf":
		return RTF
	case "odt":
		return ODT
	default:
		return OTHER
	}
}

// ContentType returns the MIME type used when storing an uploaded document.
func ContentType(format FileFormat) string {
	switch format {
	case PDF:
		return "application/pdf"
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case TXT:
		return "text/plain"
	case RTF:
		return "application/rtf"
	case ODT:
		return "application/vnd.oasis.opendocument.text"
	default:
		return "application/octet-stream"
	}
}
