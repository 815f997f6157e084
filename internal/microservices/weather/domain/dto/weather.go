package dto

import "time"

type Current struct {
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Mock        bool      `json:"mock,omitempty"`
}

type ForecastDay struct {
	Date          string  `json:"date"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Condition     string  `json:"condition"`
	Precipitation int     `json:"precipitation"`
	Humidity      int     `json:"humidity,omitempty"`
	WindSpeed     float64 `json:"windSpeed,omitempty"`
}

// Impact holds expected relative sales changes, e.g. 0.25 is +25%.
type Impact struct {
	HotDrinks  float64 `json:"hotDrinks"`
	ColdDrinks float64 `json:"coldDrinks"`
	Pastries   float64 `json:"pastries"`
	Overall    float64 `json:"overall"`
}

type ImpactReport struct {
	CurrentCondition string   `json:"currentCondition"`
	Temperature      *float64 `json:"temperature,omitempty"`
	Impact           Impact   `json:"impact"`
	Recommendations  []string `json:"recommendations"`
}

type DemandFactors struct {
	Weather       string  `json:"weather"`
	Temperature   float64 `json:"temperature"`
	Precipitation int     `json:"precipitation"`
}

type Prediction struct {
	Date            string        `json:"date"`
	PredictedDemand int           `json:"predictedDemand"`
	Confidence      float64       `json:"confidence"`
	Factors         DemandFactors `json:"factors"`
}

type DemandReport struct {
	Predictions   []Prediction `json:"predictions"`
	AverageDemand int          `json:"averageDemand"`
	PeakDay       *Prediction  `json:"peakDay"`
}
