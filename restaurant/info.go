package restaurant

// Business facts spoken to callers. Adjust these for the venue.
const (
	Name    = "Restaurant"
	Address = "Musterstraße 12, 10115 Berlin"
	Hours   = "täglich von 11:30 bis 22:00 Uhr"
)

// Greeting opens every call before the first utterance arrives.
const Greeting = "Guten Tag. Willkommen beim Restaurant. Wie kann ich Ihnen helfen?"

// HoursAndLocation is the fixed informational script for opening hours
// and address questions.
const HoursAndLocation = "Wir sind täglich von 11:30 bis 22:00 Uhr geöffnet. " +
	"Wir befinden uns in der Musterstraße 12, 10115 Berlin."

// TransferApology is spoken when a turn fails inside intent routing,
// right before transferring to a human or hanging up.
const TransferApology = "Entschuldigung, es ist ein Fehler aufgetreten. " +
	"Ich verbinde Sie mit einem Mitarbeiter."

// StaffApology is the fixed reply when the conversational completion
// itself fails.
const StaffApology = "Entschuldigung, gerade ist ein Fehler aufgetreten. " +
	"Ich verbinde Sie mit unserem Personal."

// ExtractionPrompt instructs the model to turn one utterance into the
// intent/slots/confidence JSON object.
const ExtractionPrompt = "Du bist ein professioneller, deutschsprachiger Voice-Assistant für Restaurants. " +
	"Extrahiere aus der Benutzereingabe ein JSON-Objekt mit Feldern: intent, slots (object), confidence (0-1). " +
	"Mögliche intents: reserve_table, order_takeaway, ask_menu, ask_hours_location, change_cancel, feedback, fallback."

// PersonaPrompt establishes the telephone-agent persona for free-form
// replies.
const PersonaPrompt = "Du bist ein höflicher, knapp formulierter deutschsprachiger Telefon- und Voice-Assistent für ein Restaurant. " +
	"Fasse dich kurz, bestätige kritische Felder (Datum, Uhrzeit, Personen, Name) und frage nur wenn nötig. " +
	"Antworte freundlich und professionell."
