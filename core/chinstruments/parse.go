package chinstruments

import (
	"os"
	"strconv"
	"strings"
	"time"

	"galvanokit/internal/errors"
)

// parsedFile is the raw content of one CHI export
type parsedFile struct {
	endTime   time.Time
	technique string
	metadata  map[string]string
	samples   []sample
}

// segment is one block of rows under a single column header
type segment struct {
	header string
	body   []string
}

func parseFile(path string) (*parsedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading file", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return nil, errors.Parsef("%s is too short to be a CHI export", path)
	}

	endTime, err := time.Parse(timestampLayout, strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, errors.Wrap(errors.TypeParse, "bad timestamp line", err)
	}
	out := &parsedFile{
		endTime:   endTime,
		technique: strings.TrimSpace(lines[1]),
		metadata:  make(map[string]string),
	}

	rest := lines[2:]

	// Free-form header runs until the first blank line
	i := 0
	for i < len(rest) && strings.TrimSpace(rest[i]) != "" {
		i++
	}
	for i < len(rest) && strings.TrimSpace(rest[i]) == "" {
		i++
	}

	// Metadata block: "key = value" until the next blank line
	for ; i < len(rest) && strings.TrimSpace(rest[i]) != ""; i++ {
		key, value, found := strings.Cut(rest[i], "=")
		if !found {
			return nil, errors.Parsef("line %d: expected key = value, got %q", i+3, rest[i])
		}
		out.metadata[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	segments, err := splitSegments(rest[i:])
	if err != nil {
		return nil, err
	}

	if err := out.assemble(segments); err != nil {
		return nil, err
	}
	return out, nil
}

// splitSegments groups the data area into column-header + body blocks
func splitSegments(lines []string) ([]segment, error) {
	var segments []segment
	for n, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if segmentHeaderRe.MatchString(strings.ToLower(trimmed)) && strings.Contains(trimmed, "/") {
			segments = append(segments, segment{header: trimmed})
			continue
		}
		if len(segments) == 0 {
			return nil, errors.Parsef("data row before any segment header: %q (line offset %d)", trimmed, n)
		}
		segments[len(segments)-1].body = append(segments[len(segments)-1].body, trimmed)
	}
	if len(segments) == 0 {
		return nil, errors.Parsef("no data segments found")
	}
	return segments, nil
}

// assemble replays the segments on the absolute time axis. The file's
// header timestamp marks the END of the experiment, so everything is
// shifted back by the total duration afterwards.
func (p *parsedFile) assemble(segments []segment) error {
	isCharging := p.metadata["Init P/N"] == "P"
	lastTS := p.endTime

	for _, seg := range segments {
		header := strings.ReplaceAll(seg.header, "Hold Time/sec", "Time/sec")
		cols := strings.Split(header, ",")
		timeIdx, currentIdx, potentialIdx := -1, -1, -1
		for i, c := range cols {
			switch strings.TrimSpace(c) {
			case "Time/sec":
				timeIdx = i
			case "Current/A":
				currentIdx = i
			case "Potential/V":
				potentialIdx = i
			}
		}
		if timeIdx < 0 {
			return errors.Parsef("segment %q has no time column", seg.header)
		}

		// Constant columns the instrument left out
		constCurrent, constPotential := 0.0, 0.0
		if currentIdx < 0 {
			key := "Cathodic Current (A)"
			sign := -1.0
			if isCharging {
				key = "Anodic Current (A)"
				sign = 1.0
			}
			v, err := strconv.ParseFloat(p.metadata[key], 64)
			if err != nil {
				return errors.Parsef("segment %q has no current column and no %q metadata", seg.header, key)
			}
			constCurrent = sign * v
		}
		if potentialIdx < 0 {
			key := "Low E Limit (V)"
			if isCharging {
				key = "High E Limit (V)"
			}
			v, err := strconv.ParseFloat(p.metadata[key], 64)
			if err != nil {
				return errors.Parsef("segment %q has no potential column and no %q metadata", seg.header, key)
			}
			constPotential = v
		}

		segStart := lastTS
		for _, row := range seg.body {
			fields := strings.Split(row, ",")
			if len(fields) != len(cols) {
				return errors.Parsef("segment %q: row has %d fields, header has %d",
					seg.header, len(fields), len(cols))
			}
			parse := func(idx int) (float64, error) {
				return strconv.ParseFloat(strings.TrimSpace(fields[idx]), 64)
			}

			seconds, err := parse(timeIdx)
			if err != nil {
				return errors.Wrap(errors.TypeParse, "bad time value", err)
			}
			s := sample{ts: segStart.Add(time.Duration(seconds * float64(time.Second)))}

			if currentIdx >= 0 {
				if s.current, err = parse(currentIdx); err != nil {
					return errors.Wrap(errors.TypeParse, "bad current value", err)
				}
			} else {
				s.current = constCurrent
			}
			if potentialIdx >= 0 {
				if s.potential, err = parse(potentialIdx); err != nil {
					return errors.Wrap(errors.TypeParse, "bad potential value", err)
				}
			} else {
				s.potential = constPotential
			}

			p.samples = append(p.samples, s)
			if s.ts.After(lastTS) {
				lastTS = s.ts
			}
		}

		// A potential-hold segment ends at the limit; the sweep
		// reverses afterwards.
		if potentialIdx < 0 {
			isCharging = !isCharging
		}
	}

	// Rebase: the header timestamp is the end of the experiment
	duration := lastTS.Sub(p.endTime)
	for i := range p.samples {
		p.samples[i].ts = p.samples[i].ts.Add(-duration)
	}
	return nil
}
