package model

import "strings"

// CV is the canonical CV payload shared by scoring, rendering and storage.
type CV struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       []string     `json:"skills"`
}

// PersonalInfo captures contact and identity details.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// Document is a titled CV as submitted by clients.
type Document struct {
	Title string `json:"title"`
	CV
}

// Ongoing reports whether the role has no end.
func (e Experience) Ongoing() bool {
	return e.Current || strings.TrimSpace(e.EndDate) == ""
}

// Normalized returns a copy with nil lists replaced by empty ones so the
// JSON encoding is always an array.
func (c CV) Normalized() CV {
	out := c
	if out.Education == nil {
		out.Education = []Education{}
	}
	if out.Experience == nil {
		out.Experience = []Experience{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	return out
}
