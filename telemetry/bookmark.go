package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/roshambo/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkConversionSurge BookmarkType = "conversion_surge"
	BookmarkKindExtinct     BookmarkType = "kind_extinct"
	BookmarkKindComeback    BookmarkType = "kind_comeback"
	BookmarkDominance       BookmarkType = "dominance"
	BookmarkStalemate       BookmarkType = "stalemate"
)

// stalemateWindows is how many quiet windows with all kinds alive make a stalemate.
const stalemateWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the population history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	prev      *WindowStats
	recentMin [components.NumKinds]int // lowest non-zero count since the last comeback
	quiet     int                      // consecutive windows without conversions
	dominated bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkConversionSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)
	bookmarks = append(bookmarks, bd.checkComebacks(stats)...)
	if b := bd.checkDominance(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStalemate(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	prev := stats
	bd.prev = &prev

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func kindCounts(s WindowStats) [components.NumKinds]int {
	return [components.NumKinds]int{s.Rock, s.Paper, s.Scissors}
}

func (bd *BookmarkDetector) checkConversionSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Conversions
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Conversions) > avg*2 && stats.Conversions >= 3 {
		return &Bookmark{
			Type:        BookmarkConversionSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d conversions is %.1fx average (%.1f)", stats.Conversions, float64(stats.Conversions)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkExtinctions(stats WindowStats) []Bookmark {
	if bd.prev == nil {
		return nil
	}
	var out []Bookmark
	before, now := kindCounts(*bd.prev), kindCounts(stats)
	for _, k := range components.AllKinds {
		if before[k] > 0 && now[k] == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkKindExtinct,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s died out (was %d)", k, before[k]),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkComebacks(stats WindowStats) []Bookmark {
	var out []Bookmark
	now := kindCounts(stats)
	for _, k := range components.AllKinds {
		n := now[k]
		if n == 0 {
			continue
		}
		low := bd.recentMin[k]
		if low > 0 && low <= 2 && n >= low*3 && n >= 6 {
			out = append(out, Bookmark{
				Type:        BookmarkKindComeback,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s recovered from %d to %d", k, low, n),
			})
			bd.recentMin[k] = n
			continue
		}
		if low == 0 || n < low {
			bd.recentMin[k] = n
		}
	}
	return out
}

func (bd *BookmarkDetector) checkDominance(stats WindowStats) *Bookmark {
	if bd.dominated || stats.KindsAlive != 1 {
		return nil
	}
	bd.dominated = true

	winner := components.KindRock
	for _, k := range components.AllKinds {
		if kindCounts(stats)[k] > 0 {
			winner = k
		}
	}
	return &Bookmark{
		Type:        BookmarkDominance,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%s holds all %d agents", winner, stats.Total()),
	}
}

func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	if stats.KindsAlive < int(components.NumKinds) || stats.Conversions > 0 {
		bd.quiet = 0
		return nil
	}
	bd.quiet++
	if bd.quiet == stalemateWindows {
		return &Bookmark{
			Type:        BookmarkStalemate,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No conversions for %d windows with %d/%d/%d agents", stalemateWindows, stats.Rock, stats.Paper, stats.Scissors),
		}
	}
	return nil
}
