package entity

import "github.com/dolpin-app/backend/pkg/enum"

type PopularPeriod string

var (
	PopularPeriodDaily  = enum.New(PopularPeriod("daily"))
	PopularPeriodWeekly = enum.New(PopularPeriod("weekly"))
)
