package repositories

// Scope is the request context every orchestrator runs under: who is acting
// and which company/location the documents belong to. Controllers build it
// from the auth claims in ctx.Locals.
type Scope struct {
	UserID     int
	CompanyID  int
	LocationID uint
}
