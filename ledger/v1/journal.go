package v1

import "fmt"

// journal records the previous value of every changed key since the last commit.
// A snapshot is a position in it.
type journal struct {
	entries []journalEntry
}

// A nil prev means the key did not exist.
type journalEntry struct {
	key  []byte
	prev []byte
}

func (j *journal) record(key, prev []byte) {
	j.entries = append(j.entries, journalEntry{key: key, prev: prev})
}

func (j *journal) snapshot() int {
	return len(j.entries)
}

// undo hands the entries recorded after snap to restore, newest first,
// and then forgets them.
func (j *journal) undo(snap int, restore func(key, prev []byte) error) error {
	if snap < 0 || snap > len(j.entries) {
		return fmt.Errorf("invalid snapshot %d (journal size: %d)", snap, len(j.entries))
	}
	for i := len(j.entries) - 1; i >= snap; i-- {
		if err := restore(j.entries[i].key, j.entries[i].prev); err != nil {
			return err
		}
	}
	j.entries = j.entries[:snap]
	return nil
}

func (j *journal) clear() {
	j.entries = j.entries[:0]
}
