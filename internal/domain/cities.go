package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// City is a named location in the static directory. Name is its identity.
type City struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// SuggestionLimit caps search results and the quick-pick list.
const SuggestionLimit = 8

// Cities is the static directory of Mexican cities offered by the rain map.
var Cities = []City{
	{Name: "Ciudad de Mexico", State: "CDMX"},
	{Name: "Guadalajara", State: "Jalisco"},
	{Name: "Monterrey", State: "Nuevo León"},
	{Name: "Puebla", State: "Puebla"},
	{Name: "Tijuana", State: "Baja California"},
	{Name: "León", State: "Guanajuato"},
	{Name: "Juárez", State: "Chihuahua"},
	{Name: "Zapopan", State: "Jalisco"},
	{Name: "Mérida", State: "Yucatán"},
	{Name: "San Luis Potosí", State: "San Luis Potosí"},
	{Name: "Aguascalientes", State: "Aguascalientes"},
	{Name: "Hermosillo", State: "Sonora"},
	{Name: "Saltillo", State: "Coahuila"},
	{Name: "Mexicali", State: "Baja California"},
	{Name: "Culiacán", State: "Sinaloa"},
	{Name: "Querétaro", State: "Querétaro"},
	{Name: "Chihuahua", State: "Chihuahua"},
	{Name: "Morelia", State: "Michoacán"},
	{Name: "Toluca", State: "Estado de México"},
	{Name: "Cancún", State: "Quintana Roo"},
	{Name: "Acapulco", State: "Guerrero"},
	{Name: "Torreón", State: "Coahuila"},
	{Name: "Reynosa", State: "Tamaulipas"},
	{Name: "Tuxtla Gutiérrez", State: "Chiapas"},
	{Name: "Veracruz", State: "Veracruz"},
	{Name: "Mazatlán", State: "Sinaloa"},
	{Name: "Durango", State: "Durango"},
	{Name: "Oaxaca", State: "Oaxaca"},
	{Name: "Tampico", State: "Tamaulipas"},
	{Name: "Irapuato", State: "Guanajuato"},
	{Name: "Celaya", State: "Guanajuato"},
	{Name: "Cuernavaca", State: "Morelos"},
}

// QuickCities returns the always-visible shortlist.
func QuickCities() []City {
	return append([]City(nil), Cities[:SuggestionLimit]...)
}

// SearchCities returns up to limit cities whose name or state contains query,
// ignoring case and accents ("leon" matches "León"). A blank query returns
// nothing. limit <= 0 means no cap.
func SearchCities(query string, limit int) []City {
	q := foldText(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []City
	for _, c := range Cities {
		if strings.Contains(foldText(c.Name), q) || strings.Contains(foldText(c.State), q) {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// LookupCity finds a city by exact name, ignoring case and accents.
func LookupCity(name string) (City, bool) {
	n := foldText(strings.TrimSpace(name))
	for _, c := range Cities {
		if foldText(c.Name) == n {
			return c, true
		}
	}
	return City{}, false
}

// foldText lowercases s and strips combining marks.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
