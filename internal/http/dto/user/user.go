// Package user contiene los DTOs del perfil.
package user

import (
	"time"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type Job struct {
	JobID   int64 `json:"jobId"`
	YearCnt int   `json:"yearCnt"`
}

type PortfolioURL struct {
	PortfolioURLID int64  `json:"portfolioUrlId"`
	URL            string `json:"url"`
}

// Response es la vista pública de un usuario.
type Response struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	ProfileImage  string         `json:"profileImageUrl"`
	Provider      string         `json:"provider"`
	Detail        string         `json:"detail"`
	Jobs          []Job          `json:"jobs"`
	IndustryIDs   []int64        `json:"industryIds"`
	SkillIDs      []int64        `json:"skillIds"`
	WeekDayIDs    []int64        `json:"weekDaysIds"`
	PreferTowID   *int64         `json:"preferTowId"`
	PreferWowID   *int64         `json:"preferWowId"`
	PreferSidoID  *int64         `json:"preferSidoId"`
	PortfolioURLs []PortfolioURL `json:"portfolioUrls"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// UpdateRequest es el body de PUT /user; reemplaza el perfil completo.
type UpdateRequest struct {
	Name          string         `json:"name"`
	Detail        string         `json:"detail"`
	Jobs          []Job          `json:"jobs"`
	IndustryIDs   []int64        `json:"industryIds"`
	SkillIDs      []int64        `json:"skillIds"`
	WeekDayIDs    []int64        `json:"weekDaysIds"`
	PreferTowID   *int64         `json:"preferTowId"`
	PreferWowID   *int64         `json:"preferWowId"`
	PreferSidoID  *int64         `json:"preferSidoId"`
	PortfolioURLs []PortfolioURL `json:"portfolioUrls"`
}

// ToProfile arma el perfil de dominio.
func (r UpdateRequest) ToProfile() repository.Profile {
	p := repository.Profile{
		Detail:       r.Detail,
		IndustryIDs:  r.IndustryIDs,
		SkillIDs:     r.SkillIDs,
		WeekDayIDs:   r.WeekDayIDs,
		PreferTowID:  r.PreferTowID,
		PreferWowID:  r.PreferWowID,
		PreferSidoID: r.PreferSidoID,
	}
	for _, j := range r.Jobs {
		p.Jobs = append(p.Jobs, repository.UserJob{JobID: j.JobID, YearCnt: j.YearCnt})
	}
	for _, u := range r.PortfolioURLs {
		p.PortfolioURLs = append(p.PortfolioURLs, repository.PortfolioURL{PortfolioURLID: u.PortfolioURLID, URL: u.URL})
	}
	return p
}

// From arma la respuesta; las listas vacías salen como [].
func From(u *repository.User) Response {
	out := Response{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ProfileImage:  u.AvatarURL,
		Provider:      u.Provider,
		Detail:        u.Profile.Detail,
		Jobs:          make([]Job, 0, len(u.Profile.Jobs)),
		IndustryIDs:   nonNil(u.Profile.IndustryIDs),
		SkillIDs:      nonNil(u.Profile.SkillIDs),
		WeekDayIDs:    nonNil(u.Profile.WeekDayIDs),
		PreferTowID:   u.Profile.PreferTowID,
		PreferWowID:   u.Profile.PreferWowID,
		PreferSidoID:  u.Profile.PreferSidoID,
		PortfolioURLs: make([]PortfolioURL, 0, len(u.Profile.PortfolioURLs)),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	for _, j := range u.Profile.Jobs {
		out.Jobs = append(out.Jobs, Job{JobID: j.JobID, YearCnt: j.YearCnt})
	}
	for _, p := range u.Profile.PortfolioURLs {
		out.PortfolioURLs = append(out.PortfolioURLs, PortfolioURL{PortfolioURLID: p.PortfolioURLID, URL: p.URL})
	}
	return out
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
