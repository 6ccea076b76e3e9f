// Package domain models the hourly forecast data shown by the weather-to-wear
// pages and the presentation rules applied to it.
//
// # Data Source
//
// Hourly records come from the weather backend's /api/hourly-data endpoint as a
// chronologically ordered JSON array. Index 0 is the current hour; the pages
// never look past the first [ForecastWindow] entries.
//
// Record format:
//
//	{"datetime":"14:00:00","temp":57.2,"humidity":64.1,"windspeed":11.6,
//	 "conditions":"Partially cloudy","precipitation":20,"snow":0}
//
//	Older backends send "precip" instead of "precipitation"; both decode into
//	the same field. Missing numbers decode as zero.
//
// Units:
//
//	temp        degrees Fahrenheit
//	humidity    percent
//	windspeed   miles per hour
//	precipitation  percent chance
//	snow        inches
//
// # Zipcodes
//
// A zipcode is five digits, optionally followed by a hyphen and a four digit
// ZIP+4 suffix. See [ValidZipcode].
//
// # Suggestions
//
// Outfit suggestions are free text produced by the backend's image analysis.
// [FormatSuggestions] turns them into headings, bullets, and paragraphs line by
// line; it is a presentation transform, not a markdown parser.
package domain
