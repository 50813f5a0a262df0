package questionbank

import "github.com/aeroprep/aeroprep/core/question"

var generalQuestions = []question.Question{
	newBankQuestion(
		"gen-met-001", question.AircraftGeneral, "Meteorology", question.DifficultyBasic,
		"What weather phenomenon is most associated with a microburst?",
		[4]string{"Steady headwind", "Severe windshear", "Clear-air turbulence", "Mountain waves"},
		1,
		"A microburst produces an intense downdraft and divergent outflow: severe low-level windshear.",
	),
	newBankQuestion(
		"gen-met-002", question.AircraftGeneral, "Meteorología", question.DifficultyIntermediate,
		"Under what conditions does clear ice typically form on an airframe?",
		[4]string{
			"Small supercooled droplets at very low temperatures",
			"Large supercooled droplets between 0 and -10 degrees C",
			"Dry snow at any temperature",
			"Frost during ground parking only",
		},
		1,
		"Large supercooled droplets freezing slowly near 0 to -10 C spread before freezing, forming clear ice.",
	),
	newBankQuestion(
		"gen-reg-001", question.AircraftGeneral, "Regulations", question.DifficultyBasic,
		"What is the minimum flight crew oxygen requirement for a pressurized aircraft above FL250?",
		[4]string{
			"No requirement if the cabin is pressurized",
			"Quick-donning masks available to each flight crew member",
			"Portable bottles in the cabin only",
			"Oxygen for 10% of passengers",
		},
		1,
		"Above FL250 quick-donning masks must be immediately available to flight crew.",
		"", "EASA CAT.IDE.A.235",
	),
	newBankQuestion(
		"gen-reg-002", question.AircraftGeneral, "Normativa", question.DifficultyIntermediate,
		"What rest period rules govern the operator's crew scheduling limits?",
		[4]string{"Company policy only", "Flight time limitation regulations", "Union agreements only", "No formal limits"},
		1,
		"Flight and duty time limitations and rest requirements are regulatory (FTL schemes).",
		"", "EASA ORO.FTL",
	),
	newBankQuestion(
		"gen-wb-001", question.AircraftGeneral, "Weight and Balance", question.DifficultyIntermediate,
		"What is the effect of a centre of gravity close to the aft limit?",
		[4]string{
			"Increased longitudinal stability",
			"Reduced longitudinal stability and lower trim drag",
			"Higher stalling speed",
			"No handling difference",
		},
		1,
		"An aft CG reduces static longitudinal stability and reduces trim drag, lowering fuel burn.",
	),
	newBankQuestion(
		"gen-perf-001", question.AircraftGeneral, "Performance", question.DifficultyBasic,
		"How does a contaminated runway affect the accelerate-stop distance?",
		[4]string{"It decreases", "It increases", "It is unchanged", "It only affects V2"},
		1,
		"Contamination reduces braking friction and adds displacement drag, lengthening the accelerate-stop distance.",
	),
	newBankQuestion(
		"gen-emer-001", question.AircraftGeneral, "Emergency Procedures", question.DifficultyBasic,
		"What is the first priority in any in-flight emergency?",
		[4]string{"Notify ATC immediately", "Fly the aircraft", "Run the checklist", "Brief the cabin crew"},
		1,
		"Aviate, navigate, communicate: maintaining control of the aircraft always comes first.",
	),
	newBankQuestion(
		"gen-emer-002", question.AircraftGeneral, "Procedimientos de Emergencia", question.DifficultyIntermediate,
		"During a rapid depressurization at cruise altitude, what is the immediate crew action?",
		[4]string{
			"Start an emergency descent immediately",
			"Don oxygen masks and establish communication",
			"Switch seat belt signs on",
			"Squawk 7700",
		},
		1,
		"Crew oxygen masks first; time of useful consciousness at high altitude is seconds.",
	),
	newBankQuestion(
		"gen-nav-001", question.AircraftGeneral, "Navigation", question.DifficultyBasic,
		"What does RNP 1 mean for lateral navigation accuracy?",
		[4]string{
			"Within 1 NM of track 95% of the flight time",
			"Within 1 km of track at all times",
			"1 degree of track accuracy",
			"One navaid update per minute",
		},
		0,
		"RNP 1 requires the aircraft to remain within 1 NM of the intended track 95% of the time, with on-board monitoring.",
	),
	newBankQuestion(
		"gen-com-001", question.AircraftGeneral, "Comunicaciones", question.DifficultyBasic,
		"What does the transponder code 7600 signal?",
		[4]string{"Unlawful interference", "Radio communication failure", "General emergency", "Training flight"},
		1,
		"7500 unlawful interference, 7600 radio failure, 7700 emergency.",
	),
}
