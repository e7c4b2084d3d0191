package aggregator

import "insider-features/internal/record"

type devicePair struct {
	user string
	pc   string
}

type deviceCount struct {
	count int
	first int
}

// ResolvePrimaryDevices maps every user to the device they log on to most.
// Only Logon activity counts. When two devices tie, the one whose first
// Logon appears earlier in the input wins.
func ResolvePrimaryDevices(logons []record.Logon) map[string]string {
	counts := make(map[devicePair]*deviceCount)
	for i, l := range logons {
		if l.Activity != record.ActivityLogon {
			continue
		}
		key := devicePair{user: l.User, pc: l.PC}
		c, ok := counts[key]
		if !ok {
			c = &deviceCount{first: i}
			counts[key] = c
		}
		c.count++
	}

	best := make(map[string]devicePair)
	for key, c := range counts {
		cur, ok := best[key.user]
		if !ok {
			best[key.user] = key
			continue
		}
		bc := counts[cur]
		if c.count > bc.count || (c.count == bc.count && c.first < bc.first) {
			best[key.user] = key
		}
	}

	primary := make(map[string]string, len(best))
	for user, key := range best {
		primary[user] = key.pc
	}
	return primary
}
