package model

// Константы для кнопок главного меню. Привязаны к уникальным идентификаторам обработчиков.
// Не следует добавлять/изменять константы без изменения логики регистрации обработчиков.
const (
	StartTestKey   = "start_test"
	CreateTestKey  = "create_test"
	TestCatalogKey = "test_catalog"
	LeaderboardKey = "leaderboard"
	HelpKey        = "help"
)

// Ключи текстовых шаблонов в таблице messages.
const (
	WelcomeMessageKey     = "welcome_message"
	HelpMessageKey        = "help_message"
	ChooseTrackKey        = "choose_track"
	ChooseLevelKey        = "choose_level"
	TestIntroKey          = "test_intro"
	CustomIntroKey        = "custom_intro"
	EmptyPoolResultKey    = "empty_pool_result"
	TestCancelledKey      = "test_cancelled"
	SessionExpiredKey     = "session_expired"
	LeaderboardHeaderKey  = "leaderboard_header"
	LeaderboardEmptyKey   = "leaderboard_empty"
	CatalogEmptyKey       = "catalog_empty"
	CatalogHeaderKey      = "catalog_header"
	CreationAskNameKey    = "creation_ask_name"
	CreationAskTextKey    = "creation_ask_question"
	CreationAskOptionKey  = "creation_ask_option"
	CreationAskCorrectKey = "creation_ask_correct"
	CreationConfirmKey    = "creation_confirm"
	CreationDoneKey       = "creation_done"
	CreationCancelledKey  = "creation_cancelled"
)
