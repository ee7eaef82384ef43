package model

import (
	"github.com/shopspring/decimal"
)

// 金额列为 decimal(14,2)
const MoneyScale = 2

// MaxMoney 金额列能保存的最大值
var MaxMoney = decimal.RequireFromString("999999999999.99")

// FitsMoneyColumn 金额最多两位小数且不超过列的范围
func FitsMoneyColumn(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale)) && d.Abs().LessThanOrEqual(MaxMoney)
}
