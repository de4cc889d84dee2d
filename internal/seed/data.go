package seed

import "github.com/ahmetcoskunkizilkaya/smarttest/internal/models"

type demoUser struct {
	Email string
	Name  string
	Role  models.Role
}

type demoMacroarea struct {
	Name        string
	Description string
	Tasks       []models.StandardTask
}

type demoTest struct {
	Name       string
	JiraLink   string
	Status     models.TestStatus
	Creator    string
	Macroareas []string
	// CustomTask, when set, is added before the statuses are applied.
	CustomTask string
}

const adminEmail = "anna@example.com"

var demoUsers = []demoUser{
	{Email: "simone@example.com", Name: "Simone Petretto", Role: models.RoleTester},
	{Email: "marco@example.com", Name: "Marco Rossi", Role: models.RoleTester},
	{Email: adminEmail, Name: "Anna Bianchi", Role: models.RoleAdmin},
	{Email: "giulia@example.com", Name: "Giulia Verdi", Role: models.RoleTester},
}

var demoMacroareas = []demoMacroarea{
	{
		Name:        "Preventivi",
		Description: "Gestione preventivi e offerte per i pazienti",
		Tasks: []models.StandardTask{
			{ID: "prev-1", Title: "Creazione nuovo preventivo", Description: "Verifica processo creazione preventivo completo"},
			{ID: "prev-2", Title: "Modifica preventivo esistente", Description: "Test modifica dati preventivo"},
			{ID: "prev-3", Title: "Approvazione preventivo", Description: "Workflow approvazione preventivo"},
			{ID: "prev-4", Title: "Invio preventivo al cliente", Description: "Test invio email/PDF al cliente"},
		},
	},
	{
		Name:        "Fatturazione",
		Description: "Sistema di fatturazione elettronica e gestione pagamenti",
		Tasks: []models.StandardTask{
			{ID: "fatt-1", Title: "Emissione fattura", Description: "Creazione fattura da preventivo approvato"},
			{ID: "fatt-2", Title: "Verifica dati fiscali", Description: "Controllo P.IVA e dati cliente"},
			{ID: "fatt-3", Title: "Invio fattura elettronica", Description: "Test SDI e sistema fatturazione elettronica"},
		},
	},
	{
		Name:        "Calendario",
		Description: "Gestione appuntamenti e calendario studio",
		Tasks: []models.StandardTask{
			{ID: "cal-1", Title: "Prenotazione appuntamento", Description: "Test booking nuovo appuntamento"},
			{ID: "cal-2", Title: "Modifica appuntamento", Description: "Spostamento orario/data esistente"},
			{ID: "cal-3", Title: "Cancellazione appuntamento", Description: "Rimozione appuntamento e notifiche"},
			{ID: "cal-4", Title: "Visualizzazione calendario", Description: "Test viste giorno/settimana/mese"},
		},
	},
	{
		Name:        "Piani di Cura",
		Description: "Gestione piani terapeutici per i pazienti",
		Tasks: []models.StandardTask{
			{ID: "pc-1", Title: "Creazione piano di cura", Description: "Nuovo piano terapeutico paziente"},
			{ID: "pc-2", Title: "Modifica piano esistente", Description: "Update trattamenti e tempistiche"},
		},
	},
	{
		Name:        "Consensi",
		Description: "Gestione consensi informati digitali",
		Tasks: []models.StandardTask{
			{ID: "cons-1", Title: "Firma consenso informato", Description: "Test processo firma digitale"},
			{ID: "cons-2", Title: "Archiviazione consensi", Description: "Salvataggio e recupero documenti"},
		},
	},
}

var demoTests = []demoTest{
	{Name: "Test Sistema Login", JiraLink: "https://jira.example.com/TEST-1", Status: models.TestStatusOpen,
		Creator: "simone@example.com", Macroareas: []string{"Preventivi", "Calendario"},
		CustomTask: "Test configurazione speciale"},
	{Name: "Test Creazione Preventivi", JiraLink: "https://jira.example.com/TEST-2", Status: models.TestStatusInProgress,
		Creator: "marco@example.com", Macroareas: []string{"Preventivi"}},
	{Name: "Test Fatturazione Completa", JiraLink: "https://jira.example.com/TEST-3", Status: models.TestStatusCompleted,
		Creator: adminEmail, Macroareas: []string{"Fatturazione"}},
	{Name: "Test Calendario Appuntamenti", Status: models.TestStatusFailed,
		Creator: "simone@example.com", Macroareas: []string{"Calendario"}},
	{Name: "Test Piano di Cura Nuovo", JiraLink: "https://jira.example.com/TEST-5", Status: models.TestStatusCompleted,
		Creator: "simone@example.com", Macroareas: []string{"Piani di Cura"}},
	{Name: "Test Consensi Digitali", JiraLink: "https://jira.example.com/TEST-6", Status: models.TestStatusInProgress,
		Creator: "giulia@example.com", Macroareas: []string{"Consensi"},
		CustomTask: "Verifica firma da tablet"},
	{Name: "Test Integrazione Pagamenti", JiraLink: "https://jira.example.com/TEST-7", Status: models.TestStatusFailed,
		Creator: "marco@example.com", Macroareas: []string{"Fatturazione"}},
	{Name: "Test Backup Automatico", Status: models.TestStatusCompleted,
		Creator: "giulia@example.com", Macroareas: []string{"Preventivi", "Fatturazione"}},
}
