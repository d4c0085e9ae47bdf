package mongostore

import (
	"time"

	"fintrack/internal/core"
)

type userDoc struct {
	ID              string    `bson:"_id"`
	FullName        string    `bson:"fullName"`
	Email           string    `bson:"email"`
	PasswordHash    string    `bson:"password"`
	ProfileImageURL string    `bson:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func userDocFrom(u core.User) userDoc {
	return userDoc{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d userDoc) toCore() core.User {
	return core.User{
		ID:              d.ID,
		FullName:        d.FullName,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		ProfileImageURL: d.ProfileImageURL,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

type incomeDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Source      string    `bson:"source"`
	AmountCents int64     `bson:"amountCents"`
	Date        time.Time `bson:"date"`
	Icon        string    `bson:"icon,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func incomeDocFrom(in core.Income) incomeDoc {
	return incomeDoc{
		ID:          in.ID,
		UserID:      in.UserID,
		Source:      in.Source,
		AmountCents: in.Amount.Cents,
		Date:        in.Date,
		Icon:        in.Icon,
		CreatedAt:   in.CreatedAt,
	}
}

func (d incomeDoc) toCore() core.Income {
	return core.Income{
		ID:        d.ID,
		UserID:    d.UserID,
		Source:    d.Source,
		Amount:    core.Money{Cents: d.AmountCents},
		Date:      d.Date.UTC(),
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type expenseDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Category    string    `bson:"category"`
	AmountCents int64     `bson:"amountCents"`
	Date        time.Time `bson:"date"`
	Icon        string    `bson:"icon,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func expenseDocFrom(e core.Expense) expenseDoc {
	return expenseDoc{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Date:        e.Date,
		Icon:        e.Icon,
		CreatedAt:   e.CreatedAt,
	}
}

func (d expenseDoc) toCore() core.Expense {
	return core.Expense{
		ID:        d.ID,
		UserID:    d.UserID,
		Category:  d.Category,
		Amount:    core.Money{Cents: d.AmountCents},
		Date:      d.Date.UTC(),
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type goalDoc struct {
	ID                 string     `bson:"_id"`
	UserID             string     `bson:"userId"`
	Title              string     `bson:"title"`
	Description        string     `bson:"description"`
	TargetAmountCents  int64      `bson:"targetAmountCents"`
	CurrentAmountCents int64      `bson:"currentAmountCents"`
	Category           string     `bson:"category"`
	TargetDate         *time.Time `bson:"targetDate"`
	Status             string     `bson:"status"`
	Icon               string     `bson:"icon"`
	CreatedAt          time.Time  `bson:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt"`
}

func goalDocFrom(g core.Goal) goalDoc {
	return goalDoc{
		ID:                 g.ID,
		UserID:             g.UserID,
		Title:              g.Title,
		Description:        g.Description,
		TargetAmountCents:  g.TargetAmount.Cents,
		CurrentAmountCents: g.CurrentAmount.Cents,
		Category:           string(g.Category),
		TargetDate:         g.TargetDate,
		Status:             string(g.Status),
		Icon:               g.Icon,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

func (d goalDoc) toCore() core.Goal {
	g := core.Goal{
		ID:            d.ID,
		UserID:        d.UserID,
		Title:         d.Title,
		Description:   d.Description,
		TargetAmount:  core.Money{Cents: d.TargetAmountCents},
		CurrentAmount: core.Money{Cents: d.CurrentAmountCents},
		Category:      core.GoalCategory(d.Category),
		Status:        core.GoalStatus(d.Status),
		Icon:          d.Icon,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if d.TargetDate != nil {
		t := d.TargetDate.UTC()
		g.TargetDate = &t
	}
	return g
}
