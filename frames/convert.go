package frames

var v22ToV23 = map[string]string{
	"BUF": "RBUF", "CNT": "PCNT", "COM": "COMM", "CRA": "AENC", "ETC": "ETCO",
	"EQU": "EQUA", "GEO": "GEOB", "IPL": "IPLS", "LNK": "LINK", "MCI": "MCDI",
	"MLL": "MLLT", "PIC": "APIC", "POP": "POPM", "REV": "RVRB", "RVA": "RVAD",
	"SLT": "SYLT", "STC": "SYTC", "TAL": "TALB", "TBP": "TBPM", "TCM": "TCOM",
	"TCO": "TCON", "TCR": "TCOP", "TDA": "TDAT", "TDY": "TDLY", "TEN": "TENC",
	"TFT": "TFLT", "TIM": "TIME", "TKE": "TKEY", "TLA": "TLAN", "TLE": "TLEN",
	"TMT": "TMED", "TOA": "TOPE", "TOF": "TOFN", "TOL": "TOLY", "TOR": "TORY",
	"TOT": "TOAL", "TP1": "TPE1", "TP2": "TPE2", "TP3": "TPE3", "TP4": "TPE4",
	"TPA": "TPOS", "TPB": "TPUB", "TRC": "TSRC", "TRD": "TRDA", "TRK": "TRCK",
	"TSI": "TSIZ", "TSS": "TSSE", "TT1": "TIT1", "TT2": "TIT2", "TT3": "TIT3",
	"TXT": "TEXT", "TXX": "TXXX", "TYE": "TYER", "UFI": "UFID", "ULT": "USLT",
	"WAF": "WOAF", "WAR": "WOAR", "WAS": "WOAS", "WCM": "WCOM", "WCP": "WCOP",
	"WPB": "WPUB", "WXX": "WXXX",
}

// v2.3 frames renamed or folded in v2.4. TYER, TDAT, TIME and TRDA all
// become components of the single TDRC recording time frame.
var v23ToV24 = map[string]string{
	"TYER": "TDRC", "TDAT": "TDRC", "TIME": "TDRC", "TRDA": "TDRC",
	"TORY": "TDOR", "IPLS": "TIPL", "EQUA": "EQU2", "RVAD": "RVA2",
}

var v24ToV23 = map[string]string{
	"TDRC": "TYER", "TDOR": "TORY", "TIPL": "IPLS", "EQU2": "EQUA", "RVA2": "RVAD",
}

var v23ToV22 = invert(v22ToV23)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// Convert maps a frame identifier of version from to the identifier used
// for the same frame in version to. It reports false when the target
// version has no such frame.
func Convert(from, to Version, id string) (string, bool) {
	if from == to {
		_, ok := For(from).Lookup(id)
		return id, ok
	}
	switch {
	case from == V22:
		v3, ok := v22ToV23[id]
		if !ok {
			return "", false
		}
		return Convert(V23, to, v3)
	case to == V22:
		v3, ok := Convert(from, V23, id)
		if !ok {
			return "", false
		}
		v2, ok := v23ToV22[v3]
		return v2, ok
	case from == V23 && to == V24:
		return step(v23ToV24, For(V24), id)
	case from == V24 && to == V23:
		return step(v24ToV23, For(V23), id)
	}
	return "", false
}

func step(renames map[string]string, target *Registry, id string) (string, bool) {
	if renamed, ok := renames[id]; ok {
		return renamed, true
	}
	if _, ok := target.Lookup(id); ok {
		return id, true
	}
	return "", false
}
