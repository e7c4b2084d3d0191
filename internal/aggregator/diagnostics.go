package aggregator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"insider-features/internal/record"
)

// Diagnostic describes one record the pipeline could not fully use.
type Diagnostic struct {
	Stream string `json:"stream"`
	Row    int    `json:"row"`
	User   string `json:"user,omitempty"`
	Err    error  `json:"-"`
}

// Kind is the taxonomy sentinel behind the diagnostic.
func (d Diagnostic) Kind() error {
	return record.Kind(d.Err)
}

func (d Diagnostic) Error() string {
	if d.User != "" {
		return fmt.Sprintf("%s row %d (user %s): %v", d.Stream, d.Row, d.User, d.Err)
	}
	return fmt.Sprintf("%s row %d: %v", d.Stream, d.Row, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
	seen  map[string]struct{}
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[string]struct{})}
}

func (d *Diagnostics) Add(diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, diag)
}

// AddOnce records diag only the first time key is seen.
func (d *Diagnostics) AddOnce(key string, diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.items = append(d.items, diag)
}

// List returns the diagnostics ordered by stream, then row.
func (d *Diagnostics) List() []Diagnostic {
	d.mu.Lock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	d.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stream != out[j].Stream {
			return out[i].Stream < out[j].Stream
		}
		return out[i].Row < out[j].Row
	})
	return out
}

func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Count returns how many diagnostics carry the given taxonomy sentinel.
func (d *Diagnostics) Count(kind error) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, item := range d.items {
		if item.Kind() == kind {
			n++
		}
	}
	return n
}

// Err folds every diagnostic into one error, or nil when there are none.
func (d *Diagnostics) Err() error {
	var result *multierror.Error
	for _, item := range d.List() {
		result = multierror.Append(result, item)
	}
	return result.ErrorOrNil()
}
