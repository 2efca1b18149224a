package watcher

import (
	"sort"
	"strconv"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// Merge reconciles freshly parsed items into state by id and content hash.
// Unknown ids are appended, known ids with a different hash are replaced in
// place, identical re-fetches are no-ops. History is kept sorted by date and
// the latest pointer is recomputed from the parsed set. The returned slice
// holds the net-new and updated items, in parsed order.
func Merge(state *model.State, parsed []model.OutageItem) []model.OutageItem {
	var changed []model.OutageItem

	for _, item := range parsed {
		idx := indexByID(state.History, item.ID)
		if idx == -1 {
			state.History = append(state.History, item)
			changed = append(changed, item)
			continue
		}
		if state.History[idx].ContentHash != item.ContentHash {
			state.History[idx] = item
			changed = append(changed, item)
		}
	}

	if len(state.History) > 1 {
		sort.SliceStable(state.History, func(i, j int) bool {
			return state.History[i].Date < state.History[j].Date
		})
	}

	if len(parsed) > 0 {
		state.Latest = PickLatest(parsed)
	}

	return changed
}

// PickLatest selects the most recent item. Numeric post ids are compared
// numerically when both sides have one; otherwise the later date string
// wins. Ties keep the earlier candidate.
func PickLatest(items []model.OutageItem) *model.OutageItem {
	var latest *model.OutageItem
	for i := range items {
		item := &items[i]
		if latest == nil {
			latest = item
			continue
		}
		latestID, err1 := strconv.ParseInt(latest.ID, 10, 64)
		itemID, err2 := strconv.ParseInt(item.ID, 10, 64)
		if err1 == nil && err2 == nil {
			if itemID > latestID {
				latest = item
			}
			continue
		}
		if item.Date > latest.Date {
			latest = item
		}
	}
	if latest == nil {
		return nil
	}
	copied := *latest
	return &copied
}

func indexByID(items []model.OutageItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
