package i18n

var catalog = map[Language]map[string]string{
	English: {
		"site.title":          "Our Wedding",
		"home.invite":         "We are getting married!",
		"home.when":           "When",
		"home.ceremony":       "Ceremony",
		"home.where":          "Where",
		"home.rsvp_by":        "Please RSVP by",
		"home.rsvp_hint":      "Use the personal link from your invitation to respond.",
		"rsvp.greeting":       "Dear",
		"rsvp.question":       "Will you attend?",
		"rsvp.yes":            "Joyfully accept",
		"rsvp.no":             "Regretfully decline",
		"rsvp.party":          "Number of guests",
		"rsvp.guest":          "Guest",
		"rsvp.guest_name":     "Name",
		"rsvp.meal":           "Meal",
		"rsvp.requests":       "Special requests or dietary needs",
		"rsvp.submit":         "Send RSVP",
		"rsvp.update":         "Update RSVP",
		"rsvp.previous":       "We have your response from",
		"rsvp.closed":         "RSVPs closed on",
		"rsvp.deadline":       "Please respond before",
		"rsvp.saved":          "Thank you! Your RSVP has been saved.",
		"rsvp.failed":         "We could not save your RSVP, please try again.",
		"rsvp.conflict":       "Someone else was saving at the same time, please try again.",
		"rsvp.invalid":        "Please check your answers and try again.",
		"meal.beef":           "Beef",
		"meal.fish":           "Fish",
		"meal.vegetarian":     "Vegetarian",
		"meal.kids":           "Kids menu",
		"notfound.title":      "Invitation not found",
		"notfound.body":       "We could not find an invitation for this link. Please check the URL from your invitation.",
		"admin.title":         "RSVP dashboard",
		"admin.password":      "Password",
		"admin.login":         "Log in",
		"admin.responses":     "Responses",
		"admin.attending":     "Attending",
		"admin.not_attending": "Not attending",
		"admin.total_guests":  "Total guests",
		"admin.meals":         "Meals",
		"admin.pending":       "Awaiting response",
		"admin.submitted":     "Submitted",
		"admin.download_csv":  "Download CSV",
		"admin.no_responses":  "No responses yet.",
		"admin.requests":      "Requests",
		"admin.link":          "Link",
	},
	Romanian: {
		"site.title":          "Nunta noastră",
		"home.invite":         "Ne căsătorim!",
		"home.when":           "Când",
		"home.ceremony":       "Cununia",
		"home.where":          "Unde",
		"home.rsvp_by":        "Vă rugăm să confirmați până la",
		"home.rsvp_hint":      "Folosiți linkul personal din invitație pentru a răspunde.",
		"rsvp.greeting":       "Dragă",
		"rsvp.question":       "Veți participa?",
		"rsvp.yes":            "Particip cu drag",
		"rsvp.no":             "Din păcate nu pot participa",
		"rsvp.party":          "Număr de persoane",
		"rsvp.guest":          "Invitat",
		"rsvp.guest_name":     "Nume",
		"rsvp.meal":           "Meniu",
		"rsvp.requests":       "Cerințe speciale sau alimentare",
		"rsvp.submit":         "Trimite confirmarea",
		"rsvp.update":         "Actualizează confirmarea",
		"rsvp.previous":       "Avem răspunsul dumneavoastră din",
		"rsvp.closed":         "Confirmările s-au închis pe",
		"rsvp.deadline":       "Vă rugăm să răspundeți înainte de",
		"rsvp.saved":          "Mulțumim! Confirmarea a fost salvată.",
		"rsvp.failed":         "Nu am putut salva confirmarea, vă rugăm încercați din nou.",
		"rsvp.conflict":       "Altcineva salva în același timp, vă rugăm încercați din nou.",
		"rsvp.invalid":        "Vă rugăm verificați răspunsurile și încercați din nou.",
		"meal.beef":           "Vită",
		"meal.fish":           "Pește",
		"meal.vegetarian":     "Vegetarian",
		"meal.kids":           "Meniu copii",
		"notfound.title":      "Invitația nu a fost găsită",
		"notfound.body":       "Nu am găsit o invitație pentru acest link. Verificați adresa din invitație.",
		"admin.title":         "Panou confirmări",
		"admin.password":      "Parolă",
		"admin.login":         "Autentificare",
		"admin.responses":     "Răspunsuri",
		"admin.attending":     "Participă",
		"admin.not_attending": "Nu participă",
		"admin.total_guests":  "Total invitați",
		"admin.meals":         "Meniuri",
		"admin.pending":       "Fără răspuns",
		"admin.submitted":     "Trimis",
		"admin.download_csv":  "Descarcă CSV",
		"admin.no_responses":  "Niciun răspuns încă.",
		"admin.requests":      "Cerințe",
		"admin.link":          "Link",
	},
}
