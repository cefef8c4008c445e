package group

import (
	"fmt"
	"slices"
	"time"
)

// Group represents a shared-expense group. Admins are always a subset of
// participants; every mutation re-establishes that invariant.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	Admins       []string  `json:"admins"`
	CreatedAt    time.Time `json:"created_at"`
}

// New creates an empty group. A group with zero participants is legal.
func New(id, name string) *Group {
	return &Group{
		ID:           id,
		Name:         name,
		Participants: []string{},
		Admins:       []string{},
	}
}

// IsParticipant reports whether username is a member of the group
func (g *Group) IsParticipant(username string) bool {
	return slices.Contains(g.Participants, username)
}

// IsAdmin reports whether username is an admin of the group
func (g *Group) IsAdmin(username string) bool {
	return slices.Contains(g.Admins, username)
}

// AddParticipant adds username to the group. It returns false if the user is
// already a participant; repeating the call is a no-op.
func (g *Group) AddParticipant(username string) bool {
	if g.IsParticipant(username) {
		return false
	}
	g.Participants = append(g.Participants, username)
	return true
}

// AddAdmin grants username admin rights, promoting them to participant first
// if they are not one already. It returns false if the user is already an
// admin.
func (g *Group) AddAdmin(username string) bool {
	if g.IsAdmin(username) {
		return false
	}
	g.AddParticipant(username)
	g.Admins = append(g.Admins, username)
	return true
}

// RemoveAdmin revokes username's admin role. They stay a participant. It
// returns false if the user was not an admin.
func (g *Group) RemoveAdmin(username string) bool {
	idx := slices.Index(g.Admins, username)
	if idx < 0 {
		return false
	}
	g.Admins = slices.Delete(g.Admins, idx, idx+1)
	return true
}

// RemoveParticipant removes username from the group, dropping any admin role
// with it. It returns false if the user was not a participant.
func (g *Group) RemoveParticipant(username string) bool {
	idx := slices.Index(g.Participants, username)
	if idx < 0 {
		return false
	}
	g.Participants = slices.Delete(g.Participants, idx, idx+1)
	if adminIdx := slices.Index(g.Admins, username); adminIdx >= 0 {
		g.Admins = slices.Delete(g.Admins, adminIdx, adminIdx+1)
	}
	return true
}

// Validate checks the membership invariant
func (g *Group) Validate() error {
	for _, admin := range g.Admins {
		if !g.IsParticipant(admin) {
			return fmt.Errorf("admin %q is not a participant", admin)
		}
	}
	return nil
}
