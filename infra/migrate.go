package infra

import (
	"github.com/midas-bot/midas/infra/repository"
	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the schema and loads the reference data. Seed
// rows (transaction types and currencies) are inserted once at deployment
// and never mutated by the core.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repository.Currency{},
		&repository.TransactionType{},
		&repository.User{},
		&repository.Account{},
		&repository.Storage{},
		&repository.Transaction{},
		&repository.Event{},
	); err != nil {
		return err
	}
	return seed(db)
}

func seed(db *gorm.DB) error {
	types := make([]repository.TransactionType, 0, len(domain.TransactionTypes()))
	for _, t := range domain.TransactionTypes() {
		types = append(types, repository.TransactionType{ID: int(t), Name: t.String()})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&types).Error; err != nil {
		return err
	}

	currencies := []repository.Currency{
		{ID: int(domain.CurrencyEUR), Name: "Euro", Code: "EUR", Symbol: "€"},
		{ID: int(domain.CurrencyUSD), Name: "United States Dollar", Code: "USD", Symbol: "$"},
		{ID: int(domain.CurrencyUAH), Name: "Ukrainian Hryvnia", Code: "UAH", Symbol: "₴"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&currencies).Error
}
