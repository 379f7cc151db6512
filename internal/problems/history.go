package problems

// BuildHistory joins sessions with their submissions on session_id.
//
// The join is deliberately defensive: a submission whose session_id matches
// no session is silently dropped, and a session with no submissions gets an
// empty (non-nil) list. Referential integrity is tolerated, not enforced,
// at read time.
//
// O(sessions x submissions) in-process. Both collections stay small for a
// single-student deployment; this is a scaling limit, not a correctness
// concern.
func BuildHistory(sessions []Session, submissions []Submission) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(sessions))
	for _, sess := range sessions {
		entry := HistoryEntry{
			Session:     sess,
			Submissions: []Submission{},
		}
		for _, sub := range submissions {
			if sub.SessionID == sess.ID {
				entry.Submissions = append(entry.Submissions, sub)
			}
		}
		history = append(history, entry)
	}
	return history
}
