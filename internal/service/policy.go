package service

import "github.com/sakif/recshelf/internal/model"

// Authorization policy. Every mutation goes through one of these predicates
// instead of re-deriving owner/admin logic inline, so the rules live in
// exactly one place:
//
//	delete a recommendation → owner or admin
//	curate staff picks      → admin only
//	change a user's role    → admin only

// canManageRecommendation reports whether caller may delete rec.
func canManageRecommendation(caller *model.User, rec *model.Recommendation) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || rec.OwnerExternalID == caller.ExternalID
}

// canCurate reports whether caller may toggle staff picks.
func canCurate(caller *model.User) bool {
	return caller != nil && caller.IsAdmin()
}

// canManageRoles reports whether caller may change user roles.
func canManageRoles(caller *model.User) bool {
	return caller != nil && caller.IsAdmin()
}
