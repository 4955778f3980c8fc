package state

// HelpText lists the commands the game understands.
const HelpText = `You are an astronaut stranded on a derelict ship. Explore it before your
OXYGEN runs out. Every move between rooms uses some of your air.

Commands:
  GO <DIRECTION>      Move NORTH, SOUTH, EAST or WEST (N, S, E, W also work)
  GET <ITEM>          Pick up an item in the room
  USE <ITEM>          Use an item in the room or in your inventory
  INSPECT ROOM        Survey the room for items and exits
  INSPECT <ITEM>      Take a closer look at an item
  CHECK INVENTORY     List what you are carrying
  CHECK OXYGEN        Read your oxygen gauge
  NEW                 Start a new game
  QUIT                Leave the game
  HELP                Show this list`
