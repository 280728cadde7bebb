package i18n

// Keys used by the CV builder.
const (
	KeyPlaceholder      = "cv.placeholder"
	KeySummary          = "cv.section.summary"
	KeyExperience       = "cv.section.experience"
	KeyEducation        = "cv.section.education"
	KeySkills           = "cv.section.skills"
	KeyLanguages        = "cv.section.languages"
	KeyPresent          = "cv.present"
	KeyDocumentTitle    = "cv.document.title"
	KeyProgressPrepare  = "cv.progress.preparing"
	KeyProgressImages   = "cv.progress.images"
	KeyProgressCapture  = "cv.progress.capturing"
	KeyProgressEncode   = "cv.progress.encoding"
	KeyProgressPage     = "cv.progress.page"
	KeyProgressDone     = "cv.progress.done"
	KeyErrNotVisible    = "cv.error.not_visible"
	KeyErrNotFound      = "cv.error.not_found"
	KeyErrCapture       = "cv.error.capture"
	KeyErrStorageFull   = "cv.error.storage_full"
	KeyErrImport        = "cv.error.import"
	KeyErrBusy          = "cv.error.busy"
	KeyErrPhotoSize     = "cv.error.photo_size"
	KeyErrPhotoType     = "cv.error.photo_type"
	KeyErrConfirmImport = "cv.error.confirm_import"
)

var dictionary = map[Lang]map[string]string{
	German: {
		KeyPlaceholder:      "Füllen Sie das Formular aus, um die Vorschau Ihres Lebenslaufs zu sehen.",
		KeySummary:          "Profil",
		KeyExperience:       "Berufserfahrung",
		KeyEducation:        "Ausbildung",
		KeySkills:           "Kenntnisse",
		KeyLanguages:        "Sprachen",
		KeyPresent:          "heute",
		KeyDocumentTitle:    "Lebenslauf",
		KeyProgressPrepare:  "Vorbereitung…",
		KeyProgressImages:   "Bilder werden geladen…",
		KeyProgressCapture:  "Vorschau wird erfasst…",
		KeyProgressEncode:   "PDF wird erstellt…",
		KeyProgressPage:     "Seite %d von %d",
		KeyProgressDone:     "Fertig",
		KeyErrNotVisible:    "Die Vorschau ist nicht sichtbar. Wechseln Sie zur Vorschau und versuchen Sie es erneut.",
		KeyErrNotFound:      "Die Vorschau wurde nicht gefunden.",
		KeyErrCapture:       "PDF-Export fehlgeschlagen",
		KeyErrStorageFull:   "Der lokale Speicher ist voll. Bitte geben Sie Speicherplatz frei.",
		KeyErrImport:        "Die Datei konnte nicht importiert werden",
		KeyErrBusy:          "Ein Export läuft bereits.",
		KeyErrPhotoSize:     "Das Foto ist größer als 5 MB.",
		KeyErrPhotoType:     "Nur JPEG- und PNG-Bilder sind erlaubt.",
		KeyErrConfirmImport: "Der Import überschreibt Ihre aktuellen Daten. Bitte bestätigen.",
	},
	English: {
		KeyPlaceholder:      "Fill in the form to see a preview of your CV.",
		KeySummary:          "Profile",
		KeyExperience:       "Work experience",
		KeyEducation:        "Education",
		KeySkills:           "Skills",
		KeyLanguages:        "Languages",
		KeyPresent:          "present",
		KeyDocumentTitle:    "CV",
		KeyProgressPrepare:  "Preparing…",
		KeyProgressImages:   "Loading images…",
		KeyProgressCapture:  "Capturing preview…",
		KeyProgressEncode:   "Creating PDF…",
		KeyProgressPage:     "Page %d of %d",
		KeyProgressDone:     "Done",
		KeyErrNotVisible:    "The preview is not visible. Switch to the preview and try again.",
		KeyErrNotFound:      "The preview could not be found.",
		KeyErrCapture:       "PDF export failed",
		KeyErrStorageFull:   "Local storage is full. Please free up space.",
		KeyErrImport:        "The file could not be imported",
		KeyErrBusy:          "An export is already running.",
		KeyErrPhotoSize:     "The photo is larger than 5 MB.",
		KeyErrPhotoType:     "Only JPEG and PNG images are allowed.",
		KeyErrConfirmImport: "Importing replaces your current data. Please confirm.",
	},
	Russian: {
		KeyPlaceholder:      "Заполните форму, чтобы увидеть предпросмотр резюме.",
		KeySummary:          "Профиль",
		KeyExperience:       "Опыт работы",
		KeyEducation:        "Образование",
		KeySkills:           "Навыки",
		KeyLanguages:        "Языки",
		KeyPresent:          "по настоящее время",
		KeyDocumentTitle:    "Резюме",
		KeyProgressPrepare:  "Подготовка…",
		KeyProgressImages:   "Загрузка изображений…",
		KeyProgressCapture:  "Снимок предпросмотра…",
		KeyProgressEncode:   "Создание PDF…",
		KeyProgressPage:     "Страница %d из %d",
		KeyProgressDone:     "Готово",
		KeyErrNotVisible:    "Предпросмотр не виден. Переключитесь на предпросмотр и попробуйте снова.",
		KeyErrNotFound:      "Предпросмотр не найден.",
		KeyErrCapture:       "Ошибка экспорта PDF",
		KeyErrStorageFull:   "Локальное хранилище заполнено. Освободите место.",
		KeyErrImport:        "Не удалось импортировать файл",
		KeyErrBusy:          "Экспорт уже выполняется.",
		KeyErrPhotoSize:     "Фото больше 5 МБ.",
		KeyErrPhotoType:     "Разрешены только изображения JPEG и PNG.",
		KeyErrConfirmImport: "Импорт заменит текущие данные. Подтвердите, пожалуйста.",
	},
	Tajik: {
		KeyPlaceholder:      "Формаро пур кунед, то пешнамоиши тарҷумаи ҳолатонро бинед.",
		KeySummary:          "Дар бораи худ",
		KeyExperience:       "Таҷрибаи корӣ",
		KeyEducation:        "Таҳсилот",
		KeySkills:           "Малакаҳо",
		KeyLanguages:        "Забонҳо",
		KeyPresent:          "то ҳол",
		KeyDocumentTitle:    "Тарҷумаи ҳол",
		KeyProgressPrepare:  "Омодасозӣ…",
		KeyProgressImages:   "Боркунии тасвирҳо…",
		KeyProgressCapture:  "Гирифтани пешнамоиш…",
		KeyProgressEncode:   "Сохтани PDF…",
		KeyProgressPage:     "Саҳифаи %d аз %d",
		KeyProgressDone:     "Тайёр",
		KeyErrNotVisible:    "Пешнамоиш намоён нест. Ба пешнамоиш гузаред ва боз кӯшиш кунед.",
		KeyErrNotFound:      "Пешнамоиш ёфт нашуд.",
		KeyErrCapture:       "Содироти PDF ноком шуд",
		KeyErrStorageFull:   "Хотираи маҳаллӣ пур аст. Лутфан ҷой холӣ кунед.",
		KeyErrImport:        "Файлро ворид кардан нашуд",
		KeyErrBusy:          "Содирот аллакай иҷро мешавад.",
		KeyErrPhotoSize:     "Акс аз 5 МБ калонтар аст.",
		KeyErrPhotoType:     "Танҳо тасвирҳои JPEG ва PNG иҷозат дода мешаванд.",
		KeyErrConfirmImport: "Воридот маълумоти ҷориро иваз мекунад. Лутфан тасдиқ кунед.",
	},
}
