package testutils

import "github.com/securex/securex/pkg/models"

// FIRText is a complaint narrative with the entities in FIRTextSpans.
const FIRText = "Complainant Ravi Kumar, Aadhaar 222818318317, PAN ABCDE1234F, " +
	"reported the theft of vehicle KA01AB1234 near Gandhi Nagar. Contact 9876543210."

// FIRTextSpans are the code point spans of FIRText as a recognizer would report them,
// including an overlapping lower-score candidate.
var FIRTextSpans = []models.Span{
	{Start: 12, End: 22, EntityType: "PERSON", Score: 0.85},
	{Start: 32, End: 44, EntityType: "IN_AADHAAR", Score: 0.99},
	{Start: 32, End: 38, EntityType: "PHONE_NUMBER", Score: 0.4},
	{Start: 50, End: 60, EntityType: "IN_PAN", Score: 0.85},
	{Start: 92, End: 102, EntityType: "IN_VEHICLE_REGISTRATION", Score: 0.85},
	{Start: 108, End: 120, EntityType: "LOCATION", Score: 0.85},
	{Start: 130, End: 140, EntityType: "PHONE_NUMBER", Score: 0.75},
}

// FIRFormFields is a submitted FIR form.
var FIRFormFields = map[string]models.FieldInput{
	"district":                          {Value: "Bengaluru Urban"},
	"crime_no":                          {Value: "0142/2024"},
	"police_station":                    {Value: "Jayanagar"},
	"complainant_informant_name":        {Value: "Ravi Kumar", Anonymize: true},
	"complainant_informant_phone_no":    {Value: "9876543210", Anonymize: true},
	"complainant_informant_address":     {Value: "12 Gandhi Nagar, Bengaluru", Anonymize: true},
	"complainant_informant_passport_no": {Value: "", Anonymize: true},
	"fir_contents":                      {Value: "Two-wheeler stolen from the parking lot.", Anonymize: true},
}
