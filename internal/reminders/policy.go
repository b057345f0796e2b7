package reminders

// CanMutate reports whether actor may mark r as sent or delete it: only its
// creator or its target can.
func CanMutate(r *Reminder, actor string) bool {
	if r == nil || actor == "" {
		return false
	}
	return actor == r.CreatedBy || actor == r.TargetUser
}
