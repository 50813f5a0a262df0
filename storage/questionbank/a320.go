package questionbank

import "github.com/aeroprep/aeroprep/core/question"

var a320Questions = []question.Question{
	newBankQuestion(
		"a320-elec-001", question.AircraftA320Family, "Electrical", question.DifficultyBasic,
		"How many engine-driven generators does the A320 have?",
		[4]string{"One", "Two", "Three", "Four"},
		1,
		"Each engine drives one IDG (Integrated Drive Generator), giving two engine-driven generators.",
		"FCOM DSC-24-20",
	),
	newBankQuestion(
		"a320-elec-002", question.AircraftA320Family, "Sistema Eléctrico", question.DifficultyIntermediate,
		"What happens when both main generators fail in flight above 100 kt?",
		[4]string{
			"The batteries supply the whole network",
			"The RAT extends automatically and powers the emergency generator",
			"The APU generator starts automatically",
			"All AC busses are lost until the crew selects the emergency generator",
		},
		1,
		"Loss of both main generators triggers automatic RAT extension; the blue hydraulic circuit drives the emergency generator.",
		"FCOM DSC-24-20-30",
	),
	newBankQuestion(
		"a320-hyd-001", question.AircraftA320Family, "Hydraulics", question.DifficultyBasic,
		"Which hydraulic systems power the A320 flight controls?",
		[4]string{"Green only", "Green and yellow", "Green, blue and yellow", "Blue only"},
		2,
		"The A320 has three continuously operating hydraulic systems: green, blue and yellow.",
		"FCOM DSC-29-10",
	),
	newBankQuestion(
		"a320-hyd-002", question.AircraftA320Family, "Sistema Hidráulico", question.DifficultyAdvanced,
		"What does the PTU do when the differential pressure between green and yellow exceeds 500 psi?",
		[4]string{
			"It shuts down the lower-pressure system",
			"It transfers hydraulic fluid between the systems",
			"It transfers power without fluid transfer",
			"It pressurizes the blue system",
		},
		2,
		"The Power Transfer Unit transfers hydraulic power, not fluid, between green and yellow.",
		"FCOM DSC-29-10-20",
	),
	newBankQuestion(
		"a320-fctl-001", question.AircraftA320Family, "Flight Controls", question.DifficultyIntermediate,
		"In normal law, what protection prevents the aircraft from stalling?",
		[4]string{"Alpha floor only", "High angle-of-attack protection", "Pitch trim lockout", "Alternate law reversion"},
		1,
		"High AOA protection limits alpha to alpha-max regardless of sidestick input in normal law.",
		"FCOM DSC-27-20",
	),
	newBankQuestion(
		"a320-fctl-002", question.AircraftA320Family, "Mandos de Vuelo", question.DifficultyAdvanced,
		"After a dual ELAC failure, which control law is active in pitch?",
		[4]string{"Normal law", "Alternate law", "Direct law", "Mechanical backup"},
		1,
		"SEC computers take over and the aircraft reverts to alternate law in pitch.",
		"FCOM DSC-27-30",
	),
	newBankQuestion(
		"a320-fuel-001", question.AircraftA320Family, "Fuel", question.DifficultyBasic,
		"Where is fuel used first in the A320 fuel sequence?",
		[4]string{"Wing tanks", "Center tank", "Outer cells", "Trim tank"},
		1,
		"Center tank fuel is consumed before wing tank fuel (with center tank pumps running).",
		"FCOM DSC-28-20",
	),
	newBankQuestion(
		"a320-pneu-001", question.AircraftA320Family, "Pneumatics", question.DifficultyIntermediate,
		"During engine start, what normally supplies the bleed air?",
		[4]string{"The opposite engine", "The APU", "A ground cart only", "The RAT"},
		1,
		"The APU is the normal bleed source for engine start; a ground cart or cross-bleed start is the alternative.",
		"FCOM DSC-36-10",
	),
	newBankQuestion(
		"a320-apu-001", question.AircraftA320Family, "APU", question.DifficultyBasic,
		"Up to what altitude can the A320 APU normally be started in flight?",
		[4]string{"25,000 ft", "31,000 ft", "39,000 ft", "41,000 ft"},
		2,
		"The APU is certified for start up to 39,000 ft; battery-only starts are limited to FL250 per the limitations chapter.",
		"FCOM LIM-49",
	),
	newBankQuestion(
		"a320-lg-001", question.AircraftA320Family, "Landing Gear", question.DifficultyBasic,
		"How is the A320 landing gear extended if the green hydraulic system fails?",
		[4]string{"Yellow system backup", "Gravity extension via the gravity extension handcrank", "Blue system backup", "Electric actuators"},
		1,
		"Free-fall (gravity) extension mechanically unlocks the gear doors and gear.",
		"FCOM DSC-32-30",
	),
	newBankQuestion(
		"a320-warn-001", question.AircraftA320Family, "ECAM", question.DifficultyIntermediate,
		"What color is an ECAM caution (level 2) alert?",
		[4]string{"Red", "Amber", "Green", "Cyan"},
		1,
		"Level 2 cautions are amber; level 3 warnings are red.",
		"FCOM DSC-31-15",
	),
	newBankQuestion(
		"a320-perf-001", question.AircraftA320Family, "Performance", question.DifficultyAdvanced,
		"What is the consequence of a FLEX temperature higher than actual OAT?",
		[4]string{
			"Higher takeoff thrust than full rated",
			"Reduced takeoff thrust",
			"No thrust change",
			"Automatic TOGA selection",
		},
		1,
		"FLEX (assumed temperature) derates takeoff thrust relative to full rated thrust.",
		"FCTM PER-TO",
	),
}
