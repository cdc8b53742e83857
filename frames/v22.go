package frames

var v22Entries = []entry{
	{"BUF", "Recommended buffer size"},
	{"CNT", "Play counter"},
	{"COM", "Comments"},
	{"CRA", "Audio encryption"},
	{"CRM", "Encrypted meta frame"},
	{"ETC", "Event timing codes"},
	{"EQU", "Equalization"},
	{"GEO", "General encapsulated object"},
	{"IPL", "Involved people list"},
	{"LNK", "Linked information"},
	{"MCI", "Music CD Identifier"},
	{"MLL", "MPEG location lookup table"},
	{"PIC", "Attached picture"},
	{"POP", "Popularimeter"},
	{"REV", "Reverb"},
	{"RVA", "Relative volume adjustment"},
	{"SLT", "Synchronized lyric/text"},
	{"STC", "Synced tempo codes"},
	{"TAL", "Text: Album/Movie/Show title"},
	{"TBP", "Text: BPM (Beats Per Minute)"},
	{"TCM", "Text: Composer"},
	{"TCO", "Text: Content type"},
	{"TCR", "Text: Copyright message"},
	{"TDA", "Text: Date"},
	{"TDY", "Text: Playlist delay"},
	{"TEN", "Text: Encoded by"},
	{"TFT", "Text: File type"},
	{"TIM", "Text: Time"},
	{"TKE", "Text: Initial key"},
	{"TLA", "Text: Language(s)"},
	{"TLE", "Text: Length"},
	{"TMT", "Text: Media type"},
	{"TOA", "Text: Original artist(s)/performer(s)"},
	{"TOF", "Text: Original filename"},
	{"TOL", "Text: Original Lyricist(s)/text writer(s)"},
	{"TOR", "Text: Original release year"},
	{"TOT", "Text: Original album/Movie/Show title"},
	{"TP1", "Text: Lead artist(s)/Lead performer(s)/Soloist(s)/Performing group"},
	{"TP2", "Text: Band/Orchestra/Accompaniment"},
	{"TP3", "Text: Conductor/Performer refinement"},
	{"TP4", "Text: Interpreted, remixed, or otherwise modified by"},
	{"TPA", "Text: Part of a set"},
	{"TPB", "Text: Publisher"},
	{"TRC", "Text: ISRC (International Standard Recording Code)"},
	{"TRD", "Text: Recording dates"},
	{"TRK", "Text: Track number/Position in set"},
	{"TSI", "Text: Size"},
	{"TSS", "Text: Software/hardware and settings used for encoding"},
	{"TT1", "Text: Content group description"},
	{"TT2", "Text: Title/Songname/Content description"},
	{"TT3", "Text: Subtitle/Description refinement"},
	{"TXT", "Text: Lyricist/text writer"},
	{"TXX", "User defined text information frame"},
	{"TYE", "Text: Year"},
	{"UFI", "Unique file identifier"},
	{"ULT", "Unsychronized lyric/text transcription"},
	{"WAF", "URL: Official audio file webpage"},
	{"WAR", "URL: Official artist/performer webpage"},
	{"WAS", "URL: Official audio source webpage"},
	{"WCM", "URL: Commercial information"},
	{"WCP", "URL: Copyright/Legal information"},
	{"WPB", "URL: Publishers official webpage"},
	{"WXX", "User defined URL link frame"},
}

var v22Multiple = []string{"TXX", "WXX", "PIC", "COM", "ULT", "GEO", "POP"}

var v22Discard = []string{"ETC", "EQU", "MLL", "SLT", "STC", "RVA", "TEN", "TLE", "TSI"}
