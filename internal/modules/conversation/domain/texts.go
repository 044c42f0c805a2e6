package domain

import "fmt"

// Button labels. Incoming text is matched by substring so the emoji prefix is
// optional.
const (
	ButtonDailyExport = "📤 Ishchilarning kunlik ma'lumotini yuklash"
	ButtonWorkerList  = "📋 Barcha ishchilar ro'yxati"
	ButtonStartWork   = "🟢 Ishni boshlash"
	ButtonLiveVideo   = "📹 Jonli video"
	ButtonAdvance     = "💸 Avans"
	ButtonExpenses    = "📊 Xarajatlar"
	ButtonComment     = "💬 Izoh yoki savol"
	ButtonEndWork     = "🔴 Ishni tugatish"
	ButtonTaxi        = "🚕 Taxi"
	ButtonFood        = "🍔 Ovqat"
	ButtonOther       = "📦 Boshqalar"
	ButtonBack        = "🔙 Asosiy menyu"
	ButtonNoDiploma   = "🎓 Diplom mavjud emas"
	ButtonSendPhone   = "Telefon raqamni yuborish"
	ButtonSendPlace   = "Lokatsiya yuborish"
	ButtonMainMenu    = "Asosiy menyu"
)

// Substrings recognized in incoming text.
const (
	MatchMainMenu    = "Asosiy menyu"
	MatchNoDiploma   = "Diplom mavjud emas"
	MatchDailyExport = "kunlik ma'lumotini yuklash"
	MatchWorkerList  = "Barcha ishchilar ro'yxati"
	MatchStartWork   = "Ishni boshlash"
	MatchLiveVideo   = "Jonli video"
	MatchAdvance     = "Avans"
	MatchExpenses    = "Xarajatlar"
	MatchComment     = "Izoh"
	MatchEndWork     = "tugatish"
	MatchTaxi        = "Taxi"
	MatchFood        = "Ovqat"
	MatchOther       = "Boshqalar"
)

// Expense types remembered on the profile between menu and amount.
const (
	ExpenseTaxi = "Taxi"
	ExpenseFood = "Ovqat"
)

const (
	TextAdminMenu         = "Admin menyusi:"
	TextWelcomeBack       = "Xush kelibsiz!\n\nAsosiy menyu:"
	TextWelcomeNew        = "Xush kelibsiz!\n\nIsm, familiya, otangizning ismini kiriting:"
	TextMainMenu          = "Asosiy menyu:"
	TextSpam              = "Iltimos, faqat ish ma'lumotlarini kiriting. Ortiqcha xabar yuborish taqiqlanadi."
	TextAskPhone          = "Telefon raqamingizni yuboring:"
	TextBadPhone          = "Telefon raqam +998 bilan boshlanishi va to'g'ri formatda bo'lishi kerak. Qaytadan kiriting:"
	TextAskPassportSerial = "Pasport yoki ID kartangizning seriya raqamini kiriting:"
	TextAskPassportPhoto  = "Pasport yoki ID kartangizning rasmini yuboring.\n\nIltimos, OLDI va ORQA tomondan 2 ta rasm yuboring (jami 2 ta)."
	TextPassportDone      = "Pasport muvaffaqiyatli yuklandi!\n\nEndi Diplomingizni seriya raqamini kiriting yoki \"Diplom mavjud emas\" tugmasini bosing:"
	TextTooManyPhotos     = "Faqat 2 ta rasm kerak! Iltimos, qaytadan boshlang."
	TextAskDiplomaPhoto   = "Diplomingizning rasmini yuboring.\n\nIltimos, OLDI va ORQA tomondan 2 ta rasm yuboring (jami 2 ta)."
	TextAskDiplomaAgain   = "Diplomingizni seriya raqamini kiriting yoki \"Diplom mavjud emas\" tugmasini bosing:"
	TextDiplomaDone       = "Diplom muvaffaqiyatli yuklandi!\n\nRo'yxatdan o'tish muvaffaqiyatli yakunlandi!"
	TextRegistrationDone  = "Ro'yxatdan o'tish muvaffaqiyatli yakunlandi!"
	TextAlreadyStarted    = "Siz allaqachon ish boshlagansiz! Avval joriy ishni tugatishingiz kerak."
	TextNotStarted        = "Siz hali ish boshlamagansiz!"
	TextAskObject         = "Obyekt nomini kiriting:"
	TextConfirmObject     = "Obyekt nomini tasdiqlang yoki o'zgartiring:"
	TextAskLocation       = "Iltimos, lokatsiyangizni yuboring:"
	TextStartRecorded     = "Ish boshlanishi qayd etildi!"
	TextEndRecorded       = "Ish tugashi qayd etildi! Ma'lumotlar hisobotga qo'shildi."
	TextAskLiveVideo      = "Iltimos, FAQAT Telegram ichida yumaloq video yozing va yuboring.\n\nGalereyadan video yuklash mumkin emas!"
	TextGalleryVideo      = "Galereyadan video yuklash mumkin emas!\n\nFaqat Telegram ichida YUMALOQ video yozing va yuboring."
	TextVideoRecorded     = "Video qayd etildi."
	TextAskAdvance        = "Avans miqdorini kiriting (so'mda):"
	TextAdvanceAccepted   = "Avans so'rovi qabul qilindi."
	TextChooseExpense     = "Xarajat turini tanlang:"
	TextAskTaxiAmount     = "Taxi xarajati summani kiriting (so'mda):"
	TextAskFoodAmount     = "Ovqat xarajati summani kiriting (so'mda):"
	TextAskExpenseName    = "Xarajat nomini kiriting:"
	TextAskExpenseAmount  = "Endi summasini kiriting (so'mda):"
	TextExpenseRecorded   = "Xarajat qayd etildi."
	TextNumbersOnly       = "Iltimos, faqat son kiriting:"
	TextAskComment        = "Izoh yoki savolingizni yozing:"
	TextCommentSent       = "Xabar yuborildi."
	TextUseMenu           = "Iltimos, faqat menyudagi tugmalardan foydalaning."
	TextPreparingExport   = "Excel fayli tayyorlanmoqda, iltimos kuting..."
	TextPreparingWorkers  = "Excel fayli tayyorlanmoqda..."
	TextNoWorkerData      = "Hali hech qanday ishchi ma'lumotlari mavjud emas!"
	TextFileSent          = "Fayl muvaffaqiyatli yuklandi!"
	TextExportFailed      = "Fayl yaratishda xatolik yuz berdi. Iltimos qaytadan urinib ko'ring."
	TextWorkersFailed     = "Fayl yaratishda xatolik yuz berdi."
	TextActionFailed      = "Xatolik yuz berdi. Iltimos qaytadan urinib ko'ring."
)

func AdminMenu() *Keyboard {
	return &Keyboard{Rows: [][]Button{row(ButtonDailyExport), row(ButtonWorkerList)}}
}

func WorkerMenu() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		row(ButtonStartWork, ButtonLiveVideo),
		row(ButtonAdvance, ButtonExpenses),
		row(ButtonComment, ButtonEndWork),
	}}
}

func ExpenseMenu() *Keyboard {
	return &Keyboard{Rows: [][]Button{row(ButtonTaxi, ButtonFood, ButtonOther), row(ButtonBack)}}
}

func DiplomaMenu() *Keyboard {
	return &Keyboard{Rows: [][]Button{row(ButtonNoDiploma)}}
}

func ContactKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{{{Text: ButtonSendPhone, RequestContact: true}}}, OneTime: true}
}

func LocationKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{{{Text: ButtonSendPlace, RequestLocation: true}}}, OneTime: true}
}

// ObjectKeyboard offers the current object for confirmation.
func ObjectKeyboard(object string) *Keyboard {
	rows := [][]Button{}
	if object != "" {
		rows = append(rows, row(object))
	}
	return &Keyboard{Rows: append(rows, row(ButtonMainMenu))}
}

func PhotoProgress(count int) string {
	return fmt.Sprintf("%d/2 rasm qabul qilindi.\n\nIltimos, %d ta rasm yuboring:", count, 2-count)
}

func orNone(object string) string {
	if object == "" {
		return "Yo'q"
	}
	return object
}

func NoDiplomaNotice(name, phone string) string {
	return fmt.Sprintf("DIPLOM MAVJUD EMAS\n\nIsm: %s\nTel: %s", name, phone)
}

func PassportPhotoNotice(n int, name, phone, serial string) string {
	return fmt.Sprintf("PASPORT RASMI (%d/2)\n\nIsm: %s\nTel: %s\nPasport seriya: %s", n, name, phone, serial)
}

func DiplomaPhotoNotice(n int, name, phone, serial string) string {
	return fmt.Sprintf("DIPLOM RASMI (%d/2)\n\nIsm: %s\nTel: %s\nDiplom seriya: %s", n, name, phone, serial)
}

func AdvanceNotice(s Snapshot, amount string) string {
	return fmt.Sprintf("AVANS SO'ROVI\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nSumma: %s so'm\nObyekt: %s",
		s.Name, s.Phone, s.Date, s.Time, amount, orNone(s.SessionObject))
}

func ExpenseNotice(s Snapshot, kind, amount string) string {
	return fmt.Sprintf("XARAJAT\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nTuri: %s\nSumma: %s so'm\nObyekt: %s",
		s.Name, s.Phone, s.Date, s.Time, kind, amount, orNone(s.SessionObject))
}

func OtherExpenseNotice(s Snapshot, name, amount string) string {
	return fmt.Sprintf("XARAJAT (Boshqalar)\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nTuri: %s\nSumma: %s so'm\nObyekt: %s",
		s.Name, s.Phone, s.Date, s.Time, name, amount, orNone(s.SessionObject))
}

func CommentNotice(s Snapshot, text string) string {
	return fmt.Sprintf("IZOH/SAVOL\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nObyekt: %s\n\nXabar:\n%s",
		s.Name, s.Phone, s.Date, s.Time, orNone(s.SessionObject), text)
}

func VideoNotice(s Snapshot) string {
	return fmt.Sprintf("JONLI VIDEO (Dumaloq)\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nObyekt: %s",
		s.Name, s.Phone, s.Date, s.Time, orNone(s.SessionObject))
}

func StartNotice(s Snapshot, locationURL string) string {
	return fmt.Sprintf("ISH BOSHLANDI\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nObyekt: %s\nLokatsiya: %s",
		s.Name, s.Phone, s.Date, s.Time, s.SessionObject, locationURL)
}

func EndNotice(s Snapshot, object, locationURL string) string {
	return fmt.Sprintf("ISH TUGATILDI\n\nIsm: %s\nTel: %s\nSana: %s\nVaqt: %s\nObyekt: %s\nLokatsiya: %s",
		s.Name, s.Phone, s.Date, s.Time, object, locationURL)
}
