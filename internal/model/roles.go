package model

// RoleKind is one of the roles dealt out when a game starts
type RoleKind string

const (
	RoleMafia    RoleKind = "mafia"
	RoleSheriff  RoleKind = "sheriff"
	RoleDoctor   RoleKind = "doctor"
	RoleManiac   RoleKind = "maniac"
	RoleLover    RoleKind = "lover"
	RoleCivilian RoleKind = "civilian"
)

// OptionalRoles are the roles a room may request beyond the always-dealt
// mafia and sheriff
var OptionalRoles = []RoleKind{RoleDoctor, RoleManiac, RoleLover}

// RoleAssignment maps each roster nickname to its dealt role.
// It is computed once per game start and never persisted.
type RoleAssignment map[Nickname]RoleKind
