package kicad

// board is a small KiCad 7 board: a resistor, a capacitor rotated by 90
// degrees, an SOIC and a mounting hole without pads.
const board = `(kicad_pcb (version 20221018) (generator pcbnew)
  (general
    (thickness 1.6)
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "VCC")
  (net 3 "Net-(R1-Pad2)")
  (footprint "Resistor_SMD:R_0603" (layer "F.Cu")
    (at 100 50)
    (fp_text reference "R1" (at 0 -1.5) (layer "F.SilkS"))
    (pad "1" smd rect (at -0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 2 "VCC"))
    (pad "2" smd rect (at 0.8 0) (size 0.8 0.9) (layers "F.Cu") (net 3 "Net-(R1-Pad2)"))
  )
  (footprint "Capacitor_SMD:C_0603" (layer "F.Cu")
    (at 110 50 90)
    (property "Reference" "C1" (at 0 -1.5 90) (layer "F.SilkS"))
    (pad "1" smd rect (at -0.8 0 90) (size 0.8 0.9) (layers "F.Cu") (net 3 "Net-(R1-Pad2)"))
    (pad "2" smd rect (at 0.8 0 90) (size 0.8 0.9) (layers "F.Cu") (net 1 "GND"))
  )
  (footprint "Package_SO:SOIC-8" (layer "F.Cu")
    (at 120 60)
    (fp_text reference "U1" (at 0 -3.5) (layer "F.SilkS"))
    (pad "1" smd rect (at -2.5 -1.9) (size 1.5 0.6) (layers "F.Cu") (net 2 "VCC"))
    (pad "2" smd rect (at -2.5 -0.6) (size 1.5 0.6) (layers "F.Cu") (net 3 "Net-(R1-Pad2)"))
    (pad "4" smd rect (at -2.5 1.9) (size 1.5 0.6) (layers "F.Cu") (net 1 "GND"))
    (pad "5" smd rect (at 2.5 1.9) (size 1.5 0.6) (layers "F.Cu") (net 1 "GND"))
    (pad "8" smd rect (at 2.5 -1.9) (size 1.5 0.6) (layers "F.Cu") (net 2 "VCC"))
  )
  (footprint "MountingHole:MountingHole_3.2mm" (layer "F.Cu")
    (at 90 40)
    (fp_text reference "H1" (at 0 -4) (layer "F.SilkS"))
  )
  (segment (start 100.8 50) (end 110 50.8) (width 0.25) (layer "F.Cu") (net 3))
)
`
