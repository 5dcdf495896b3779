package safety

import (
	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/countstore"
	"github.com/jewel-voice/jewel/safety/engine"
	"github.com/jewel-voice/jewel/safety/store"
)

type Engine = engine.Engine
type ClassificationResult = engine.ClassificationResult
type EmotionSnapshot = engine.EmotionSnapshot

type Catalog = catalog.Catalog
type Category = catalog.Category
type Severity = catalog.Severity

type ViolationRecord = store.ViolationRecord
type FlaggedAccount = store.FlaggedAccount
type EmergencyEvent = store.EmergencyEvent

var (
	CategoryCSAM     = catalog.CategoryCSAM
	CategoryViolence = catalog.CategoryViolence
	CategoryNSFW     = catalog.CategoryNSFW
	CategoryIllegal  = catalog.CategoryIllegal
	CategoryDistress = catalog.CategoryDistress
	CategoryAutonomy = catalog.CategoryAutonomy

	StatusFlagged = store.StatusFlagged
	StatusBanned  = store.StatusBanned

	EventDistressDetected = store.EventDistressDetected
	EventViolenceDetected = store.EventViolenceDetected

	PeriodTotal = countstore.PeriodTotal
	PeriodDay   = countstore.PeriodDay
	PeriodHour  = countstore.PeriodHour
)
