package questionbank

import "github.com/aeroprep/aeroprep/core/question"

var b737Questions = []question.Question{
	newBankQuestion(
		"b737-elec-001", question.AircraftB737Family, "Electrical", question.DifficultyBasic,
		"On the 737NG, can both transfer busses be powered by a single generator?",
		[4]string{"No, never", "Yes, any single generator can power both", "Only the APU generator can", "Only on the ground"},
		1,
		"Any single generator (engine or APU) can power the entire electrical system.",
		"B737 FCOM 6.20",
	),
	newBankQuestion(
		"b737-elec-002", question.AircraftB737Family, "Sistema Eléctrico", question.DifficultyIntermediate,
		"What does the standby power system supply when normal power is lost?",
		[4]string{
			"All AC busses",
			"The AC standby bus, DC standby bus and battery bus",
			"Only the captain's instruments",
			"Nothing until the APU starts",
		},
		1,
		"The battery (via the static inverter for AC) supplies the standby busses for at least 60 minutes.",
		"B737 FCOM 6.20.7",
	),
	newBankQuestion(
		"b737-hyd-001", question.AircraftB737Family, "Hydraulics", question.DifficultyBasic,
		"Which hydraulic systems power the 737 primary flight controls?",
		[4]string{"System A only", "System B only", "Systems A and B", "The standby system only"},
		2,
		"Ailerons, elevators and rudder are powered by both A and B; standby covers the rudder and other services.",
		"B737 FCOM 13.20",
	),
	newBankQuestion(
		"b737-fctl-001", question.AircraftB737Family, "Flight Controls", question.DifficultyIntermediate,
		"What happens to the ailerons and elevators if both hydraulic systems A and B fail?",
		[4]string{
			"They become inoperative",
			"They revert to manual reversion via control cables and tabs",
			"The standby system powers them",
			"The autopilot takes over",
		},
		1,
		"Manual reversion: the pilots move the surfaces through cables, with balance tabs assisting.",
		"B737 FCOM 9.20",
	),
	newBankQuestion(
		"b737-fuel-001", question.AircraftB737Family, "Combustible", question.DifficultyBasic,
		"In what order is fuel normally used on the 737?",
		[4]string{"Wing tanks then center tank", "Center tank then wing tanks", "All tanks simultaneously", "Outboard then inboard"},
		1,
		"Center tank fuel is used first because its pumps deliver higher output pressure.",
		"B737 FCOM 12.20",
	),
	newBankQuestion(
		"b737-pneu-001", question.AircraftB737Family, "Pneumatics", question.DifficultyIntermediate,
		"Why must engine bleed air be off for a no-engine-bleed takeoff?",
		[4]string{
			"To protect the packs",
			"To make maximum thrust available",
			"To avoid wing anti-ice damage",
			"To keep the APU running",
		},
		1,
		"With engine bleeds off, bleed air extraction losses are removed, increasing available thrust.",
		"B737 SP.2",
	),
	newBankQuestion(
		"b737-apu-001", question.AircraftB737Family, "APU", question.DifficultyBasic,
		"What can the 737 APU supply simultaneously on the ground?",
		[4]string{"Bleed air only", "Electrical power only", "Bleed air and electrical power", "Neither below 10 degrees C"},
		2,
		"On the ground the APU supplies both bleed and electrics; in flight the combination is altitude-limited.",
		"B737 FCOM 7.20",
	),
	newBankQuestion(
		"b737-lg-001", question.AircraftB737Family, "Tren de Aterrizaje", question.DifficultyBasic,
		"How is the 737 landing gear extended if hydraulic system A fails?",
		[4]string{"System B backup", "Manual extension handles in the flight deck floor", "Gravity free-fall switch", "Electric actuators"},
		1,
		"Manual gear extension handles release the uplocks and the gear free-falls.",
		"B737 FCOM 14.20",
	),
	newBankQuestion(
		"b737-warn-001", question.AircraftB737Family, "Warning Systems", question.DifficultyIntermediate,
		"What does a steady red ENGINE FIRE warning switch light indicate?",
		[4]string{"An overheat only", "Fire detected in the corresponding engine", "A test in progress", "A faulted detection loop"},
		1,
		"The fire switch illuminates red when the engine fire detection system senses fire.",
		"B737 FCOM 8.20",
	),
	newBankQuestion(
		"b737-perf-001", question.AircraftB737Family, "Performance", question.DifficultyAdvanced,
		"What does an improved-climb takeoff trade for a higher climb-limited weight?",
		[4]string{"Longer flap retraction schedule", "Excess runway for higher V2", "Reduced V1", "Higher flex temperature"},
		1,
		"Improved climb uses excess field length to accelerate to higher V-speeds, raising the climb limit weight.",
		"B737 PI chapter",
	),
}
