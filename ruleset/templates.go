package ruleset

import "outfitengine/wardrobe"

// DefaultTemplates returns the default template registry, one recipe per
// occasion, covering sixteen occasions with a fuller slot vocabulary than a
// minimal top/bottom/footwear set (bag/belt/jewelry/headwear/hosiery are
// added as optional slots rather than left unmodeled).
func DefaultTemplates() map[string]Template {
	tmpl := func(id, occasion string, required, optional []wardrobe.Slot, min, max int, mode AccessoryMode) Template {
		return Template{
			TemplateID:    id,
			Occasion:      occasion,
			RequiredSlots: required,
			OptionalSlots: optional,
			MinDressiness: min,
			MaxDressiness: max,
			AccessoryMode: mode,
		}
	}

	out := map[string]Template{}

	out["work_office"] = tmpl("work_office", "work_office",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotBelt, wardrobe.SlotBag, wardrobe.SlotJewelry},
		3, 5, AccessoryStrictFamily)

	out["work_casual"] = tmpl("work_casual", "work_casual",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotMid, wardrobe.SlotOuter, wardrobe.SlotBag},
		2, 4, AccessoryCoordinated)

	out["casual_day"] = tmpl("casual_day", "casual_day",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotBag, wardrobe.SlotHeadwear},
		1, 3, AccessoryFree)

	out["date_night"] = tmpl("date_night", "date_night",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotJewelry, wardrobe.SlotBag},
		3, 4, AccessoryCoordinated)

	out["formal_event"] = tmpl("formal_event", "formal_event",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotJewelry, wardrobe.SlotBag, wardrobe.SlotBelt},
		4, 5, AccessoryStrictFamily)

	out["cocktail_evening"] = tmpl("cocktail_evening", "cocktail_evening",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotJewelry, wardrobe.SlotBag},
		4, 5, AccessoryStrictFamily)

	out["wedding_guest"] = tmpl("wedding_guest", "wedding_guest",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotJewelry, wardrobe.SlotBag, wardrobe.SlotHeadwear},
		4, 5, AccessoryStrictFamily)

	out["streetwear"] = tmpl("streetwear", "streetwear",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotMid, wardrobe.SlotHeadwear, wardrobe.SlotBag},
		1, 3, AccessoryFree)

	out["athleisure"] = tmpl("athleisure", "athleisure",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter},
		1, 2, AccessoryFree)

	out["active_gym"] = tmpl("active_gym", "active_gym",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		nil,
		1, 1, AccessoryFree)

	out["beach_resort"] = tmpl("beach_resort", "beach_resort",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotHeadwear, wardrobe.SlotBag},
		1, 2, AccessoryFree)

	out["festival_concert"] = tmpl("festival_concert", "festival_concert",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotHeadwear, wardrobe.SlotBag, wardrobe.SlotJewelry},
		1, 3, AccessoryFree)

	out["travel_airport"] = tmpl("travel_airport", "travel_airport",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotBag},
		1, 3, AccessoryFree)

	out["winter_layering"] = tmpl("winter_layering", "winter_layering",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotOuter, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotMid, wardrobe.SlotHeadwear, wardrobe.SlotHosiery},
		2, 5, AccessoryCoordinated)

	out["rainwear_technical"] = tmpl("rainwear_technical", "rainwear_technical",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotOuter, wardrobe.SlotFootwear},
		nil,
		1, 4, AccessoryFree)

	out["creative_professional"] = tmpl("creative_professional", "creative_professional",
		[]wardrobe.Slot{wardrobe.SlotTop, wardrobe.SlotBottom, wardrobe.SlotFootwear},
		[]wardrobe.Slot{wardrobe.SlotOuter, wardrobe.SlotBag, wardrobe.SlotJewelry},
		2, 4, AccessoryCoordinated)

	return out
}
