package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualsIgnoringID(t *testing.T) {
	base := Transaction{
		Date:            "2024-01-02 10:00:00",
		TransactionType: "INVEST_ORDER_EXECUTED",
		TransactionInfo: "Buy Palantir",
		DebitAmount:     100.50,
		DebitCurrency:   "USD",
		BuySell:         "BUY",
		Quantity:        2,
		Ticker:          "PLTR",
		PricePerUnit:    50.25,
		Platform:        "Yuh",
		Currency:        "USD",
	}

	sameDataDifferentID := base
	sameDataDifferentID.ID = 42
	assert.True(t, base.EqualsIgnoringID(sameDataDifferentID))

	differentQuantity := base
	differentQuantity.Quantity = 3
	assert.False(t, base.EqualsIgnoringID(differentQuantity))

	differentDate := base
	differentDate.Date = "2024-01-03 10:00:00"
	assert.False(t, base.EqualsIgnoringID(differentDate))
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{
		MissingColumns: []string{"ASSET", "BUY/SELL"},
		FoundColumns:   []string{"DATE", "DEBIT"},
	}
	assert.Equal(t, "missing required columns: ASSET, BUY/SELL (found: DATE, DEBIT)", err.Error())
}
