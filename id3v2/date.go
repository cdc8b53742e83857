package id3v2

import (
	"strings"
)

// RecordingDate is the v2.4 recording time assembled from the separate
// v2.3 year, date, time and recording dates frames.
type RecordingDate struct {
	Year string // yyyy
	Date string // DDMM
	Time string // HHMM
	Reco string // free form recording dates
}

func (d *RecordingDate) SetYear(s string) { d.Year = strings.TrimSpace(s) }
func (d *RecordingDate) SetDate(s string) { d.Date = strings.TrimSpace(s) }
func (d *RecordingDate) SetTime(s string) { d.Time = strings.TrimSpace(s) }
func (d *RecordingDate) SetReco(s string) { d.Reco = strings.TrimSpace(s) }

// set assigns the component that frame id carries in v2.3 or v2.2
func (d *RecordingDate) set(id, s string) bool {
	switch id {
	case "TYER", "TYE":
		d.SetYear(s)
	case "TDAT", "TDA":
		d.SetDate(s)
	case "TIME", "TIM":
		d.SetTime(s)
	case "TRDA", "TRD":
		d.SetReco(s)
	default:
		return false
	}
	return true
}

func digits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// String renders the timestamp as yyyy-MM-ddTHH:mm, as far as the
// components allow. Without a year the recording dates text is used.
func (d RecordingDate) String() string {
	if !digits(d.Year, 4) {
		return d.Reco
	}
	var b strings.Builder
	b.WriteString(d.Year)
	if !digits(d.Date, 4) {
		return b.String()
	}
	b.WriteString("-" + d.Date[2:] + "-" + d.Date[:2])
	if digits(d.Time, 4) {
		b.WriteString("T" + d.Time[:2] + ":" + d.Time[2:])
	}
	return b.String()
}

// ParseRecordingDate splits a v2.4 timestamp back into its components.
// Text that is not a timestamp is kept as recording dates.
func ParseRecordingDate(s string) RecordingDate {
	s = strings.TrimSpace(s)
	if len(s) < 4 || !digits(s[:4], 4) {
		return RecordingDate{Reco: s}
	}
	d := RecordingDate{Year: s[:4]}
	// yyyy-MM-dd
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' && digits(s[5:7], 2) && digits(s[8:10], 2) {
		d.Date = s[8:10] + s[5:7]
		// THH:mm
		if len(s) >= 16 && s[10] == 'T' && s[13] == ':' && digits(s[11:13], 2) && digits(s[14:16], 2) {
			d.Time = s[11:13] + s[14:16]
		}
	}
	return d
}

// split returns the v2.3 frames carrying the components of d
func (d RecordingDate) split() []struct{ ID, Text string } {
	var out []struct{ ID, Text string }
	add := func(id, s string) {
		if s != "" {
			out = append(out, struct{ ID, Text string }{id, s})
		}
	}
	add("TYER", d.Year)
	add("TDAT", d.Date)
	add("TIME", d.Time)
	add("TRDA", d.Reco)
	return out
}

// RecordingDate returns the composite date of a TDRC frame, parsing the
// frame text on first use. It is nil for every other frame.
func (f *Frame) RecordingDate() *RecordingDate {
	if f.id != "TDRC" {
		return nil
	}
	if f.date == nil {
		d := ParseRecordingDate(f.Text())
		f.date = &d
	}
	return f.date
}

// mergeDate applies the component carried by a converted frame to the
// composite date of f and rewrites the frame text.
func (f *Frame) mergeDate(from *Frame) bool {
	d := *f.RecordingDate()
	if !d.set(from.OriginalID, from.Text()) {
		return false
	}
	f.SetText(d.String())
	f.date = &d
	return true
}
