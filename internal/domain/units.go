package domain

// TemperatureUnit declares the encoding of incoming temperature values.
// The ingestion mode decides the unit up front; it is never guessed from
// the data.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// ToCelsius converts a temperature in the given unit to Celsius, the
// canonical storage unit.
func ToCelsius(value float64, unit TemperatureUnit) float64 {
	if unit == Fahrenheit {
		return (value - 32) * 5 / 9
	}
	return value
}

// ToFahrenheit converts a stored Celsius temperature back to Fahrenheit.
func ToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}
