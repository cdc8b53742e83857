package frames

var v23Entries = []entry{
	{"TPE2", "Text: Band/Orchestra/Accompaniment"},
	{"TALB", "Text: Album/Movie/Show title"},
	{"TPE1", "Text: Lead artist(s)/Lead performer(s)/Soloist(s)/Performing group"},
	{"APIC", "Attached picture"},
	{"AENC", "Audio encryption"},
	{"TBPM", "Text: BPM (Beats Per Minute)"},
	{"COMM", "Comments"},
	{"COMR", ""},
	{"TCOM", "Text: Composer"},
	{"TPE3", "Text: Conductor/Performer refinement"},
	{"TIT1", "Text: Content group description"},
	{"TCOP", "Text: Copyright message"},
	{"TENC", "Text: Encoded by"},
	{"ENCR", "Encryption method registration"},
	{"EQUA", "Equalization"},
	{"ETCO", "Event timing codes"},
	{"TOWN", ""},
	{"TFLT", "Text: File type"},
	{"GEOB", "General encapsulated datatype"},
	{"TCON", "Text: Content type"},
	{"GRID", ""},
	{"TSSE", "Text: Software/hardware and settings used for encoding"},
	{"TKEY", "Text: Initial key"},
	{"IPLS", "Involved people list"},
	{"TSRC", "Text: ISRC (International Standard Recording Code)"},
	{"TLAN", "Text: Language(s)"},
	{"TLEN", "Text: Length"},
	{"LINK", "Linked information"},
	{"TEXT", "Text: Lyricist/text writer"},
	{"TMED", "Text: Media type"},
	{"MLLT", "MPEG location lookup table"},
	{"MCDI", "Music CD Identifier"},
	{"TOPE", "Text: Original artist(s)/performer(s)"},
	{"TOFN", "Text: Original filename"},
	{"TOLY", "Text: Original Lyricist(s)/text writer(s)"},
	{"TOAL", "Text: Original album/Movie/Show title"},
	{"OWNE", ""},
	{"TDLY", "Text: Playlist delay"},
	{"PCNT", "Play counter"},
	{"POPM", "Popularimeter"},
	{"POSS", "Position Sync"},
	{"PRIV", "Private frame"},
	{"TPUB", "Text: Publisher"},
	{"TRSN", ""},
	{"TRSO", ""},
	{"RBUF", "Recommended buffer size"},
	{"RVAD", "Relative volume adjustment"},
	{"TPE4", "Text: Interpreted, remixed, or otherwise modified by"},
	{"RVRB", "Reverb"},
	{"TPOS", "Text: Part of a set"},
	{"SYLT", "Synchronized lyric/text"},
	{"SYTC", "Synced tempo codes"},
	{"TDAT", "Text: Date"},
	{"USER", ""},
	{"TIME", "Text: Time"},
	{"TIT2", "Text: Title/Songname/Content description"},
	{"TIT3", "Text: Subtitle/Description refinement"},
	{"TORY", "Text: Original release year"},
	{"TRCK", "Text: Track number/Position in set"},
	{"TRDA", "Text: Recording dates"},
	{"TSIZ", "Text: Size"},
	{"TYER", "Text: Year"},
	{"UFID", "Unique file identifier"},
	{"USLT", "Unsychronized lyric/text transcription"},
	{"WOAR", "URL: Official artist/performer webpage"},
	{"WCOM", "URL: Commercial information"},
	{"WCOP", "URL: Copyright/Legal information"},
	{"WOAF", "URL: Official audio file webpage"},
	{"WORS", "Official Radio"},
	{"WPAY", "URL: Payment"},
	{"WPUB", "URL: Publishers official webpage"},
	{"WOAS", "URL: Official audio source webpage"},
	{"TXXX", "User defined text information frame"},
	{"WXXX", "User defined URL link frame"},
}

var v23Multiple = []string{"TXXX", "WXXX", "APIC", "PRIV", "COMM"}

var v23Discard = []string{
	"ETCO", "EQUA", "MLLT", "POSS", "SYLT", "SYTC", "RVAD", "TENC", "TLEN", "TSIZ",
}
