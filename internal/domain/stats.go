package domain

import (
	"math"
	"sort"
)

// TemperatureRange is the observed min/max Celsius temperature, rounded to
// one decimal place.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ConditionCount pairs a weather description with its occurrence count.
type ConditionCount struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Summary aggregates the stored samples of one location (or one period).
type Summary struct {
	TotalRecords         int               `json:"total_records"`
	AverageTemperature   *float64          `json:"average_temperature"`
	TemperatureRange     *TemperatureRange `json:"temperature_range"`
	MostCommonConditions []ConditionCount  `json:"most_common_conditions"`
}

// Summarize computes journal statistics over a set of weather samples:
// average and min/max temperature rounded to a tenth of a degree, and the
// three most common condition descriptions. An empty input yields a
// zero-count summary with nil aggregates.
func Summarize(samples []WeatherSample) Summary {
	summary := Summary{
		TotalRecords:         len(samples),
		MostCommonConditions: []ConditionCount{},
	}
	if len(samples) == 0 {
		return summary
	}

	minTemp := samples[0].Temperature
	maxTemp := samples[0].Temperature
	var sum float64
	counts := make(map[string]int)

	for _, s := range samples {
		sum += s.Temperature
		minTemp = math.Min(minTemp, s.Temperature)
		maxTemp = math.Max(maxTemp, s.Temperature)
		if s.Description != "" {
			counts[s.Description]++
		}
	}

	avg := roundTenth(sum / float64(len(samples)))
	summary.AverageTemperature = &avg
	summary.TemperatureRange = &TemperatureRange{
		Min: roundTenth(minTemp),
		Max: roundTenth(maxTemp),
	}

	conditions := make([]ConditionCount, 0, len(counts))
	for desc, n := range counts {
		conditions = append(conditions, ConditionCount{Description: desc, Count: n})
	}
	sort.Slice(conditions, func(i, j int) bool {
		if conditions[i].Count != conditions[j].Count {
			return conditions[i].Count > conditions[j].Count
		}
		return conditions[i].Description < conditions[j].Description
	})
	if len(conditions) > 3 {
		conditions = conditions[:3]
	}
	summary.MostCommonConditions = conditions

	return summary
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
