package questionbank

import "github.com/aeroprep/aeroprep/core/question"

// fallbackQuestions is the reduced bank served when the primary sources fail.
var fallbackQuestions = []question.Question{
	newBankQuestion(
		"fb-elec-001", question.AircraftGeneral, "Electrical", question.DifficultyBasic,
		"What does an inverter do in an aircraft electrical system?",
		[4]string{"Converts AC to DC", "Converts DC to AC", "Stores charge", "Regulates generator frequency"},
		1,
		"An inverter converts DC (typically battery power) to AC for AC-only consumers.",
	),
	newBankQuestion(
		"fb-hyd-001", question.AircraftGeneral, "Hydraulics", question.DifficultyBasic,
		"What is the purpose of a hydraulic accumulator?",
		[4]string{"Cool the fluid", "Store pressure and damp pulsations", "Filter the fluid", "Increase pump speed"},
		1,
		"An accumulator stores hydraulic energy under gas pressure and smooths system pulsations.",
	),
	newBankQuestion(
		"fb-perf-001", question.AircraftGeneral, "Performance", question.DifficultyBasic,
		"What is V1?",
		[4]string{"Rotation speed", "Takeoff decision speed", "Initial climb speed", "Minimum control speed"},
		1,
		"V1 is the maximum speed at which a rejected takeoff can be initiated.",
	),
	newBankQuestion(
		"fb-met-001", question.AircraftGeneral, "Meteorology", question.DifficultyBasic,
		"What cloud type is associated with thunderstorms?",
		[4]string{"Stratus", "Cumulonimbus", "Cirrus", "Altostratus"},
		1,
		"Cumulonimbus clouds produce thunderstorms, hail and severe turbulence.",
	),
	newBankQuestion(
		"fb-emer-001", question.AircraftGeneral, "Emergency Procedures", question.DifficultyBasic,
		"Which transponder code signals a general emergency?",
		[4]string{"7500", "7600", "7700", "7000"},
		2,
		"7700 declares a general emergency to ATC.",
	),
	newBankQuestion(
		"fb-reg-001", question.AircraftGeneral, "Regulations", question.DifficultyBasic,
		"Who has final authority for the safe operation of the flight?",
		[4]string{"The operator", "The pilot-in-command", "ATC", "The dispatcher"},
		1,
		"The pilot-in-command holds final authority and responsibility for the operation.",
	),
}

// minimalQuestions is the last-resort bank; the loader truncates it to 100
// records (the table is far smaller, the cap guards future growth).
var minimalQuestions = []question.Question{
	newBankQuestion(
		"min-gen-001", question.AircraftGeneral, "General", question.DifficultyBasic,
		"What are the four forces acting on an aircraft in flight?",
		[4]string{
			"Lift, weight, thrust, drag",
			"Lift, gravity, speed, power",
			"Thrust, drag, wind, weight",
			"Lift, drag, altitude, thrust",
		},
		0,
		"Lift opposes weight; thrust opposes drag.",
	),
	newBankQuestion(
		"min-gen-002", question.AircraftGeneral, "General", question.DifficultyBasic,
		"What instrument indicates the aircraft's attitude relative to the horizon?",
		[4]string{"Altimeter", "Attitude indicator", "Heading indicator", "Vertical speed indicator"},
		1,
		"The attitude indicator (artificial horizon) shows pitch and bank.",
	),
	newBankQuestion(
		"min-gen-003", question.AircraftGeneral, "General", question.DifficultyBasic,
		"What does the acronym TOGA stand for?",
		[4]string{"Takeoff/Go-Around", "Throttle Open, Gear Armed", "Terminal Operations General Area", "Thrust Override Gate Assembly"},
		0,
		"TOGA is the takeoff and go-around thrust setting.",
	),
	newBankQuestion(
		"min-gen-004", question.AircraftGeneral, "General", question.DifficultyBasic,
		"Which color marks the never-exceed speed on an airspeed indicator?",
		[4]string{"Green", "Yellow", "Red", "White"},
		2,
		"The red line marks VNE.",
	),
}
