package billing

// IsPremium is the access gate: the single place that decides whether a
// subscription read grants premium access. Every feature boundary calls this
// predicate; nothing else may compare statuses.
//
// nil means "no subscription" and always denies. past_due still denies even
// though the row exists; access resumes only when the provider confirms
// recovery.
func IsPremium(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	return sub.Status().GrantsAccess()
}
