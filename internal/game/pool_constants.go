package game

// Table geometry and tuning for chaos pool. Distances are table units
// (one unit is one pixel of the reference 1300x650 layout), times in seconds.

const (
	// Playing surface edges.
	TableLeft   = 50.0
	TableRight  = 1150.0
	TableTop    = 50.0
	TableBottom = 600.0
	TableCX     = (TableLeft + TableRight) / 2
	TableCY     = (TableTop + TableBottom) / 2

	// Input regions. Presses left of TableInputWidth count as "on the table".
	TableInputWidth = 1200.0
	PowerRegionX    = 1220.0
	PowerRegionY    = 50.0
	PowerRegionW    = 40.0
	PowerRegionH    = 550.0

	BallRadius     = 15.0
	BallMass       = 1.0
	BallElasticity = 0.8
	BallFriction   = 0.5

	RailThickness  = 20.0
	RailElasticity = 0.8
	RailFriction   = 0.5

	BumperRadius     = 25.0
	BumperElasticity = 1.2
	BumperFriction   = 0.5
	BumperCount      = 2
	BumperMargin     = 60.0
	BumperClearance  = 60.0

	ZoneWidth      = 200.0
	ZoneHeight     = 120.0
	ZoneInsetLeft  = 100.0
	ZoneInsetRight = 250.0
	ZoneInsetTop   = 100.0
	ZoneInsetBot   = 200.0
	ZoneMudShift   = 200.0
	MudDrag        = 0.98
	IceBoost       = 1.01
	IceMinSpeed    = 10.0

	PortalMargin          = 80.0
	PortalBallClearance   = 120.0
	PortalHazardClearance = 100.0
	PortalCaptureRadius   = 25.0
	PortalEjectOffset     = 30.0
	PortalStillSpeed      = 10.0
	PortalCooldownSteps   = 40

	PlacementAttempts = 100

	PocketCaptureRadius = 40.0
	PocketReportRadius  = 50.0
	PocketSuctionRadius = 40.0
	PocketSuctionForce  = 500.0

	// Stepping.
	FrameRate          = 60
	SubSteps           = 5
	FastForwardSubStep = 50
	SubStepDt          = (1.0 / FrameRate) / SubSteps

	MaxSpeed         = 3000.0
	Friction         = 0.98
	AngularDecay     = 0.99
	HardStopSpeed    = 13.0
	RestSpeed        = 5.0
	MaxShotImpulse   = 5000.0
	MinShotPower     = 0.05
	AimRayLength     = 2000.0
	NumObjectBalls   = 15
	CueStartX        = 300.0
	RackStartX       = 800.0
	RackColumns      = 5
	GoldenMultiplier = 2

	// Score deltas.
	ScoreScratch    = -50
	ScoreObjectBall = 100
	ScoreBlackBall  = 500
)
