package domain

// CREATE TABLE public.lights (
//     room              TEXT PRIMARY KEY,
//     status            TEXT,
//     brightness        INTEGER,
//     color_temperature TEXT,
//     motion_detected   BOOLEAN
// );

const (
	LightOn  = "on"
	LightOff = "off"
)

const (
	RoomLivingRoom = "living_room"
	RoomKitchen    = "kitchen"
	RoomBedroom    = "bedroom"
	RoomBathroom   = "bathroom"
	RoomOffice     = "office"
)

// Rooms is the fixed room vocabulary. Order matters: the occupancy feature
// layout one-hot encodes rooms in this order.
var Rooms = []string{
	RoomLivingRoom,
	RoomKitchen,
	RoomBedroom,
	RoomBathroom,
	RoomOffice,
}

func KnownRoom(room string) bool {
	for _, r := range Rooms {
		if r == room {
			return true
		}
	}
	return false
}

type Light struct {
	Room             string `gorm:"column:room;primaryKey" json:"room"`
	Status           string `gorm:"column:status;type:text" json:"status"`
	Brightness       int    `gorm:"column:brightness" json:"brightness"`
	ColorTemperature string `gorm:"column:color_temperature;type:text" json:"color_temperature"`
	MotionDetected   bool   `gorm:"column:motion_detected;default:false" json:"motion_detected"`
}

func (Light) TableName() string {
	return "lights"
}

// LightState is the runtime per-room state shared by the automation loop and
// the schedule executor.
type LightState struct {
	Status           string `json:"status"`
	Brightness       int    `json:"brightness"`
	ColorTemperature string `json:"color_temperature"`
	MotionDetected   bool   `json:"motion_detected"`
}

func DefaultLightState() LightState {
	return LightState{
		Status:           LightOff,
		Brightness:       0,
		ColorTemperature: "warm",
		MotionDetected:   false,
	}
}
