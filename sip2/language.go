package sip2

// SIP2 3-digit language codes.
const (
	LanguageUnknown = "000"
	LanguageEnglish = "001"
	LanguageFrench  = "002"
	LanguageGerman  = "003"
	LanguageItalian = "004"
	LanguageDutch   = "005"
	LanguageSwedish = "006"
	LanguageFinnish = "007"
	LanguageSpanish = "008"
	LanguageDanish  = "009"
)

// languageByName maps ISO 639-2 names (and a few SIP2-only entries) onto the
// protocol's 3-digit codes.
var languageByName = map[string]string{
	"und": LanguageUnknown,
	"eng": LanguageEnglish,
	"fre": LanguageFrench,
	"ger": LanguageGerman,
	"ita": LanguageItalian,
	"dut": LanguageDutch,
	"swe": LanguageSwedish,
	"fin": LanguageFinnish,
	"spa": LanguageSpanish,
	"dan": LanguageDanish,
	"por": "010",
	"nor": "012",
	"heb": "013",
	"jpn": "014",
	"rus": "015",
	"ara": "016",
	"pol": "017",
	"gre": "018",
	"chi": "019",
	"kor": "020",
	"tam": "022",
	"may": "023",
	"ice": "025",
}

// languageCode resolves an ISO 639-2 name to its SIP2 code, falling back to
// the unknown code for unmapped languages.
func languageCode(name string) string {
	if code, ok := languageByName[name]; ok {
		return code
	}
	return LanguageUnknown
}
